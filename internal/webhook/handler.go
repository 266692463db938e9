package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"webhook-relay/internal/config"
	"webhook-relay/internal/mapper"
	"webhook-relay/internal/mautic"
	"webhook-relay/internal/models"
	"webhook-relay/internal/store"
	"webhook-relay/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Config   *config.Config
	Store    store.PayloadStore
	CRM      *mautic.Client
	WhatsApp *whatsapp.Client
}

func NewHandler(cfg *config.Config, st store.PayloadStore, crm *mautic.Client, wa *whatsapp.Client) *Handler {
	return &Handler{
		Config:   cfg,
		Store:    st,
		CRM:      crm,
		WhatsApp: wa,
	}
}

// HandleAbandonedCart ingests GoKwik abandoned-cart events on POST /.
func (h *Handler) HandleAbandonedCart(c *gin.Context) {
	raw, ok := h.captureIncoming(c)
	if !ok {
		return
	}

	var ev models.CartEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		h.fail(c, "gokwik", raw, mapper.NewValidationError("invalid JSON body"))
		return
	}

	contact, err := mapper.MapAbandonedCart(&ev, time.Now())
	if err != nil {
		h.fail(c, "gokwik", raw, err)
		return
	}

	// Once started, the pipeline runs to completion: a client disconnect
	// must not abort an in-flight upsert. The client's own 10s timeout
	// still bounds the call.
	ctx := context.WithoutCancel(c.Request.Context())

	if err := h.CRM.Upsert(ctx, contact); err != nil {
		h.fail(c, "gokwik", raw, err)
		return
	}

	h.auditForwarded(contact)
	log.Printf("Mautic OK | gokwik | %s", contact.Email)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleOrder ingests WooCommerce order events on POST /woocommerce. Orders
// outside processing/completed are filtered, not failed. The WhatsApp
// dispatch runs after the upsert is committed and can never undo it.
func (h *Handler) HandleOrder(c *gin.Context) {
	raw, ok := h.captureIncoming(c)
	if !ok {
		return
	}

	var order models.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		h.fail(c, "woocommerce", raw, mapper.NewValidationError("invalid JSON body"))
		return
	}

	if !mapper.SyncableStatus(order.Status) {
		log.Printf("WooCommerce ignored | status %q", order.Status)
		c.JSON(http.StatusOK, gin.H{"ignored_status": order.Status})
		return
	}

	contact, err := mapper.MapOrder(&order)
	if err != nil {
		h.fail(c, "woocommerce", raw, err)
		return
	}

	// Once started, the pipeline runs to completion: a client disconnect
	// must not abort the upsert or the notification. The clients' own 10s
	// timeouts still bound both calls.
	ctx := context.WithoutCancel(c.Request.Context())

	if err := h.CRM.Upsert(ctx, contact); err != nil {
		h.fail(c, "woocommerce", raw, err)
		return
	}

	h.auditForwarded(contact)
	log.Printf("Mautic OK | woocommerce | %s", contact.Email)

	// Best-effort side channel. The result is logged, never returned.
	res := h.WhatsApp.SendOrderProcessing(ctx, &order)
	log.Print(notificationLog(order.ID.String(), res))

	c.JSON(http.StatusOK, gin.H{"status": "order synced"})
}

// captureIncoming reads the raw body and audits it verbatim. A failed
// incoming audit aborts the request: without it the one-incoming-record
// invariant cannot hold.
func (h *Handler) captureIncoming(c *gin.Context) ([]byte, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body", "kind": "validation"})
		return nil, false
	}

	if _, err := h.Store.Save(store.CategoryIncoming, raw); err != nil {
		log.Printf("Audit ERROR | incoming | %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit store unavailable", "kind": "internal"})
		return nil, false
	}

	return raw, true
}

func (h *Handler) auditForwarded(contact *models.Contact) {
	body, err := json.Marshal(contact)
	if err == nil {
		_, err = h.Store.Save(store.CategoryForwarded, body)
	}
	if err != nil {
		// The upsert is already committed; losing the audit copy is a
		// logged gap, not a failure.
		log.Printf("Audit ERROR | forwarded | %v", err)
	}
}

func (h *Handler) fail(c *gin.Context, source string, raw []byte, err error) {
	if _, serr := h.Store.Save(store.CategoryErrors, raw); serr != nil {
		log.Printf("Audit ERROR | errors | %v", serr)
	}

	log.Printf("%s ERROR | %s", source, err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": errKind(err)})
}

// notificationLog renders the dispatcher outcome with only the detail
// fields that are actually set.
func notificationLog(orderID string, res whatsapp.Result) string {
	line := fmt.Sprintf("WhatsApp result | Order %s | %s", orderID, res.Status)
	if res.Reason != "" {
		line += " | " + res.Reason
	}
	if res.Message != "" {
		line += " | " + res.Message
	}
	return line
}

func errKind(err error) string {
	var ve *mapper.ValidationError
	var fe *mautic.ForwardError
	var te *mautic.TransportError

	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &fe):
		return "forward"
	case errors.As(err, &te):
		return "transport"
	default:
		return "internal"
	}
}
