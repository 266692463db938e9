// Package whatsapp sends the templated order-processing notification via
// the Fast2SMS WhatsApp gateway. The whole path is best-effort: it must
// never fail the order sync that triggered it.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"webhook-relay/internal/config"
	"webhook-relay/internal/models"
	"webhook-relay/internal/store"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	StatusSent    = "sent"
	StatusSkipped = "skipped"
	StatusError   = "error"

	ReasonDuplicate     = "duplicate"
	ReasonInvalidMobile = "invalid_mobile"
)

// Result is the dispatcher outcome. The pipeline logs it and moves on; it
// never influences the order-sync response.
type Result struct {
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

func sent() Result { return Result{Status: StatusSent} }

func skipped(reason string) Result { return Result{Status: StatusSkipped, Reason: reason} }

func errored(msg string) Result { return Result{Status: StatusError, Message: msg} }

type Client struct {
	Config  *config.Config
	Markers store.MarkerStore

	http *http.Client
}

func NewClient(cfg *config.Config, markers store.MarkerStore) *Client {
	return &Client{
		Config:  cfg,
		Markers: markers,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SendOrderProcessing dispatches the order-processing template message at
// most once per order id. Every failure, including a panic, is contained
// here and reported as a Result.
func (c *Client) SendOrderProcessing(ctx context.Context, order *models.Order) (res Result) {
	orderID := order.ID.String()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("WhatsApp ERROR | Order %s | panic: %v", orderID, r)
			res = errored(fmt.Sprintf("panic: %v", r))
		}
	}()

	already, err := c.Markers.AlreadySent(orderID)
	if err != nil {
		log.Printf("WhatsApp ERROR | Order %s | marker check: %v", orderID, err)
		return errored(err.Error())
	}
	if already {
		log.Printf("WhatsApp skipped | Already sent | Order %s", orderID)
		return skipped(ReasonDuplicate)
	}

	mobile := NormalizeMobile(order.Billing.Phone)
	if mobile == "" {
		log.Printf("WhatsApp NOT sent | Invalid mobile | Order %s | %q", orderID, order.Billing.Phone)
		return skipped(ReasonInvalidMobile)
	}

	orderDate, err := formatOrderDate(order)
	if err != nil {
		log.Printf("WhatsApp ERROR | Order %s | %v", orderID, err)
		return errored(err.Error())
	}

	total, err := order.Total.Float64()
	if err != nil {
		log.Printf("WhatsApp ERROR | Order %s | bad total %q: %v", orderID, order.Total, err)
		return errored(fmt.Sprintf("bad order total %q", order.Total))
	}

	variables := strings.Join([]string{
		strings.TrimSpace(order.Billing.FirstName),
		orderID,
		orderDate,
		FormatOrderValue(total),
		paymentType(order.PaymentMethod),
	}, "|")

	form := url.Values{
		"message_id":       {c.Config.MessageID},
		"phone_number_id":  {c.Config.PhoneNumberID},
		"numbers":          {mobile},
		"variables_values": {variables},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.WhatsAppURL, strings.NewReader(form.Encode()))
	if err != nil {
		log.Printf("WhatsApp ERROR | Order %s | %v", orderID, err)
		return errored(err.Error())
	}
	req.Header.Set("authorization", c.Config.Fast2SMSAPIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("WhatsApp ERROR | Order %s | %v", orderID, err)
		return errored(err.Error())
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("WhatsApp FAILED | Order %s | %d | %s", orderID, resp.StatusCode, respBody)
		return errored(fmt.Sprintf("gateway returned %d: %s", resp.StatusCode, respBody))
	}

	if err := c.Markers.MarkSent(orderID); err != nil {
		// The message went out; a failed marker write only risks a repeat
		// on the next webhook delivery.
		log.Printf("WhatsApp WARNING | Order %s | marker write: %v", orderID, err)
	}

	log.Printf("WhatsApp sent | Order %s | %s", orderID, mobile)
	return sent()
}

// NormalizeMobile strips every non-digit and keeps the last 10 digits.
// Returns "" unless exactly 10 digits remain.
func NormalizeMobile(raw string) string {
	var digits []rune
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if len(digits) != 10 {
		return ""
	}
	return string(digits)
}

// FormatOrderValue renders the order total as a thousands-grouped rupee
// amount, truncating toward zero: 1234.5 -> "Rs. 1,234/-".
func FormatOrderValue(total float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("Rs. %d/-", int64(total))
}

func paymentType(method string) string {
	if method == "cod" {
		return "COD"
	}
	return "Prepaid"
}

// formatOrderDate renders the order creation time as dd/mm/yyyy. WooCommerce
// sets date_created in the store timezone and date_created_gmt in UTC; the
// local one wins when both are present. Accepts both offset-free timestamps
// and RFC3339 ones carrying a Z or a zone offset.
func formatOrderDate(order *models.Order) (string, error) {
	raw := order.DateCreated
	if raw == "" {
		raw = order.DateCreatedGMT
	}
	if raw == "" {
		return "", errors.New("order has no creation date")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("02/01/2006"), nil
	}

	t, err := time.Parse("2006-01-02T15:04:05.999999999", strings.TrimSuffix(raw, "Z"))
	if err != nil {
		return "", fmt.Errorf("unparseable order date %q", raw)
	}
	return t.Format("02/01/2006"), nil
}
