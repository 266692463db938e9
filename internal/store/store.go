package store

import (
	"fmt"
	"strings"
	"time"

	"webhook-relay/internal/config"

	"github.com/google/uuid"
)

// Payload categories. Every inbound event lands in incoming, and exactly one
// of forwarded/errors records its terminal outcome (status-filtered orders
// stop after incoming).
const (
	CategoryIncoming  = "incoming"
	CategoryForwarded = "forwarded"
	CategoryErrors    = "errors"
)

// PayloadStore is the append-only audit sink. Records are write-once and
// never read back by the relay.
type PayloadStore interface {
	Save(category string, body []byte) (string, error)
}

// MarkerStore is the duplicate guard for WhatsApp order notifications.
// Markers are permanent; read-then-write is not atomic and that is an
// accepted risk.
type MarkerStore interface {
	AlreadySent(orderID string) (bool, error)
	MarkSent(orderID string) error
}

type Store interface {
	PayloadStore
	MarkerStore
}

// Open selects the storage backend from config.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "", "file":
		return NewFileStore(cfg.DataDir)
	case "sqlite", "postgres":
		return NewGormStore(cfg.StorageDriver, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// newRecordID builds a timestamp-plus-random identifier so concurrent
// writers never collide without coordination.
func newRecordID() string {
	ts := time.Now().UTC().Format("20060102-150405")
	return ts + "-" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
