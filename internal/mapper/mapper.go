// Package mapper turns source-specific webhook payloads into the canonical
// Mautic contact record.
package mapper

import (
	"sort"
	"strings"
	"time"

	"webhook-relay/internal/models"
)

const (
	LeadSourceGoKwik      = "gokwik"
	LeadSourceWooCommerce = "woocommerce"
)

// ValidationError marks malformed or incomplete inbound data.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string { return e.Reason }

// SyncableStatus reports whether an order status should be relayed at all.
// Anything else is filtered with a neutral response, not an error.
func SyncableStatus(status string) bool {
	return status == "processing" || status == "completed"
}

// MapAbandonedCart maps a GoKwik abandoned-cart event. Only the first cart
// is used; any others are silently ignored (known upstream limitation).
// The lifecycle flags are reset to false so every new abandonment re-arms
// the downstream coupon/reminder automation.
func MapAbandonedCart(ev *models.CartEvent, now time.Time) (*models.Contact, error) {
	if len(ev.Carts) == 0 {
		return nil, NewValidationError("no carts in payload")
	}

	cart := ev.Carts[0]
	if cart.Customer.Email == "" {
		return nil, NewValidationError("missing email")
	}

	names, category := extractCartProducts(cart.Items)

	return &models.Contact{
		Email:                 cart.Customer.Email,
		Firstname:             cart.Customer.Firstname,
		Lastname:              cart.Customer.Lastname,
		Mobile:                cart.Customer.Phone,
		LeadSource:            LeadSourceGoKwik,
		CartURL:               cart.AbcURL,
		CartValue:             cart.TotalPrice,
		DropStage:             cart.DropStage,
		LastAbandonedCartDate: now.UTC().Format(time.RFC3339),
		LastProductNames:      names,
		LastProductCategory:   category,
		Tags:                  []string{"source:gokwik", "intent:abandoned-cart"},
		AbcCupon5Sent:         false,
		Abc1:                  false,
		Abc2:                  false,
		Abc3:                  false,
	}, nil
}

// MapOrder maps a WooCommerce order event. Callers must filter the order
// status with SyncableStatus first.
//
// first_order_date is always the current order's date; the CRM is trusted
// to keep an earlier value if one exists.
func MapOrder(order *models.Order) (*models.Contact, error) {
	if order.Billing.Email == "" {
		return nil, NewValidationError("no email in WooCommerce payload")
	}

	orderDate := order.DateCreatedGMT

	return &models.Contact{
		Email:            order.Billing.Email,
		Mobile:           order.Billing.Phone,
		LastOrderID:      order.ID.String(),
		LastOrderDate:    orderDate,
		FirstOrderDate:   orderDate,
		HasPurchased:     true,
		LastProductNames: joinOrderProducts(order.LineItems),
		City:             order.Billing.City,
		Pincode:          order.Billing.Postcode,
		LeadSource:       LeadSourceWooCommerce,
		Tags:             []string{"source:website", "type:website-customer"},
		AbcCupon5Sent:    true,
		Abc1:             true,
		Abc2:             true,
		Abc3:             true,
	}, nil
}

// extractCartProducts joins all non-empty item names with ", " and picks a
// single category from the items' metadata. When several distinct
// categories appear, the lexicographically smallest wins so the choice is
// deterministic.
func extractCartProducts(items []models.CartItem) (names string, category string) {
	var parts []string
	categories := map[string]bool{}

	for _, item := range items {
		if item.Name != "" {
			parts = append(parts, item.Name)
		}
		for _, meta := range item.Metadata {
			if meta.Key != "category" {
				continue
			}
			if v, ok := meta.Value.(string); ok && v != "" {
				categories[v] = true
			}
		}
	}

	if len(categories) > 0 {
		keys := make([]string, 0, len(categories))
		for k := range categories {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		category = keys[0]
	}

	return strings.Join(parts, ", "), category
}

func joinOrderProducts(items []models.OrderLineItem) string {
	var parts []string
	for _, item := range items {
		if item.Name != "" {
			parts = append(parts, item.Name)
		}
	}
	return strings.Join(parts, ", ")
}
