package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const markerDir = "whatsapp_sent"

// FileStore keeps one JSON file per audit record under category
// subdirectories of the storage root, and one flag file per sent order.
// This matches the relay's original on-disk layout.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	for _, dir := range []string{CategoryIncoming, CategoryForwarded, CategoryErrors, markerDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, err
		}
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Save(category string, body []byte) (string, error) {
	id := newRecordID()

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err == nil {
		body = pretty.Bytes()
	}

	path := filepath.Join(s.root, category, id+".json")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FileStore) AlreadySent(orderID string) (bool, error) {
	_, err := os.Stat(s.markerPath(orderID))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *FileStore) MarkSent(orderID string) error {
	body := []byte(time.Now().UTC().Format(time.RFC3339))
	return os.WriteFile(s.markerPath(orderID), body, 0o644)
}

func (s *FileStore) markerPath(orderID string) string {
	return filepath.Join(s.root, markerDir, "order_"+orderID+".flag")
}
