package mapper

import (
	"testing"
	"time"

	"webhook-relay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartEvent() *models.CartEvent {
	return &models.CartEvent{
		Carts: []models.Cart{
			{
				Customer: models.CartCustomer{
					Email:     "shopper@example.com",
					Firstname: "Asha",
					Lastname:  "Verma",
					Phone:     "+91 9876543210",
				},
				AbcURL:     "https://shop.example.com/cart/abc123",
				TotalPrice: "1499",
				DropStage:  "payment",
			},
		},
	}
}

func TestMapAbandonedCart(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)

	contact, err := MapAbandonedCart(cartEvent(), now)
	require.NoError(t, err)

	assert.Equal(t, "shopper@example.com", contact.Email)
	assert.Equal(t, "Asha", contact.Firstname)
	assert.Equal(t, "Verma", contact.Lastname)
	assert.Equal(t, "+91 9876543210", contact.Mobile)
	assert.Equal(t, LeadSourceGoKwik, contact.LeadSource)
	assert.Equal(t, "https://shop.example.com/cart/abc123", contact.CartURL)
	assert.Equal(t, models.FlexNumber("1499"), contact.CartValue)
	assert.Equal(t, "payment", contact.DropStage)
	assert.Equal(t, "2024-03-10T12:30:00Z", contact.LastAbandonedCartDate)
	assert.Equal(t, []string{"source:gokwik", "intent:abandoned-cart"}, contact.Tags)

	// Every abandonment re-arms the downstream automation.
	assert.False(t, contact.AbcCupon5Sent)
	assert.False(t, contact.Abc1)
	assert.False(t, contact.Abc2)
	assert.False(t, contact.Abc3)
}

func TestMapAbandonedCartNoCarts(t *testing.T) {
	_, err := MapAbandonedCart(&models.CartEvent{}, time.Now())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "no carts in payload", ve.Reason)
}

func TestMapAbandonedCartMissingEmail(t *testing.T) {
	ev := cartEvent()
	ev.Carts[0].Customer.Email = ""

	_, err := MapAbandonedCart(ev, time.Now())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "missing email", ve.Reason)
}

func TestMapAbandonedCartOnlyFirstCartUsed(t *testing.T) {
	ev := cartEvent()
	ev.Carts = append(ev.Carts, models.Cart{
		Customer: models.CartCustomer{Email: "other@example.com"},
	})

	contact, err := MapAbandonedCart(ev, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", contact.Email)
}

func TestMapAbandonedCartProducts(t *testing.T) {
	ev := cartEvent()
	ev.Carts[0].Items = []models.CartItem{
		{Name: "Linen Shirt", Metadata: []models.MetaEntry{{Key: "category", Value: "Tops"}}},
		{Name: ""},
		{Name: "Denim Jacket", Metadata: []models.MetaEntry{
			{Key: "colour", Value: "indigo"},
			{Key: "category", Value: "Outerwear"},
		}},
	}

	contact, err := MapAbandonedCart(ev, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Linen Shirt, Denim Jacket", contact.LastProductNames)
	// Lexicographically smallest category wins when several appear.
	assert.Equal(t, "Outerwear", contact.LastProductCategory)
}

func TestSyncableStatus(t *testing.T) {
	assert.True(t, SyncableStatus("processing"))
	assert.True(t, SyncableStatus("completed"))
	assert.False(t, SyncableStatus("pending"))
	assert.False(t, SyncableStatus("cancelled"))
	assert.False(t, SyncableStatus(""))
}

func TestMapOrder(t *testing.T) {
	order := &models.Order{
		ID:             "42",
		Status:         "completed",
		Total:          "500",
		PaymentMethod:  "cod",
		DateCreatedGMT: "2024-01-01T00:00:00",
		Billing: models.Billing{
			Email:    "a@b.com",
			Phone:    "9876543210",
			City:     "Pune",
			Postcode: "411001",
		},
		LineItems: []models.OrderLineItem{
			{Name: "Linen Shirt"},
			{Name: "Denim Jacket"},
		},
	}

	contact, err := MapOrder(order)
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", contact.Email)
	assert.Equal(t, "9876543210", contact.Mobile)
	assert.Equal(t, "42", contact.LastOrderID)
	assert.Equal(t, "2024-01-01T00:00:00", contact.LastOrderDate)
	assert.Equal(t, contact.LastOrderDate, contact.FirstOrderDate)
	assert.True(t, contact.HasPurchased)
	assert.Equal(t, "Linen Shirt, Denim Jacket", contact.LastProductNames)
	assert.Equal(t, "Pune", contact.City)
	assert.Equal(t, "411001", contact.Pincode)
	assert.Equal(t, LeadSourceWooCommerce, contact.LeadSource)
	assert.Equal(t, []string{"source:website", "type:website-customer"}, contact.Tags)

	// Order completion marks the customer past the recovery funnel.
	assert.True(t, contact.AbcCupon5Sent)
	assert.True(t, contact.Abc1)
	assert.True(t, contact.Abc2)
	assert.True(t, contact.Abc3)
}

func TestMapOrderMissingEmail(t *testing.T) {
	order := &models.Order{ID: "42", Status: "processing"}

	_, err := MapOrder(order)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}
