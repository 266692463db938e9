package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PayloadRecord is an audit record row.
type PayloadRecord struct {
	ID        string `gorm:"primaryKey"`
	Category  string `gorm:"index"`
	Body      []byte
	CreatedAt time.Time
}

func (PayloadRecord) TableName() string { return "payloads" }

// SentMarker records that the WhatsApp order notification went out.
// The primary key on OrderID is what enforces at-most-once.
type SentMarker struct {
	OrderID string `gorm:"primaryKey;column:order_id"`
	SentAt  time.Time
}

func (SentMarker) TableName() string { return "sent_markers" }

// GormStore implements both store contracts on sqlite or postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if err := db.AutoMigrate(&PayloadRecord{}, &SentMarker{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) Save(category string, body []byte) (string, error) {
	rec := PayloadRecord{
		ID:       newRecordID(),
		Category: category,
		Body:     body,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *GormStore) AlreadySent(orderID string) (bool, error) {
	var marker SentMarker
	err := s.db.First(&marker, "order_id = ?", orderID).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (s *GormStore) MarkSent(orderID string) error {
	marker := SentMarker{OrderID: orderID, SentAt: time.Now().UTC()}
	// Concurrent sends for the same order may race; the conflict clause
	// keeps the second write harmless.
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker).Error
}
