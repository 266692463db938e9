package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGormStore(t *testing.T) *GormStore {
	t.Helper()
	gs, err := NewGormStore("sqlite", filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	return gs
}

func TestGormStoreRejectsUnknownDriver(t *testing.T) {
	_, err := NewGormStore("mysql", "dsn")
	assert.Error(t, err)
}

func TestGormStoreSave(t *testing.T) {
	gs := newTestGormStore(t)

	id, err := gs.Save(CategoryForwarded, []byte(`{"email":"a@b.com"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	var rec PayloadRecord
	require.NoError(t, gs.db.First(&rec, "id = ?", id).Error)
	assert.Equal(t, CategoryForwarded, rec.Category)
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(rec.Body))
}

func TestGormStoreMarkers(t *testing.T) {
	gs := newTestGormStore(t)

	already, err := gs.AlreadySent("42")
	require.NoError(t, err)
	assert.False(t, already)

	require.NoError(t, gs.MarkSent("42"))

	already, err = gs.AlreadySent("42")
	require.NoError(t, err)
	assert.True(t, already)

	// Repeat marking must stay harmless.
	require.NoError(t, gs.MarkSent("42"))
}
