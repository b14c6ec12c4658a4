package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBoltStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "treasury.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
	assert.FileExists(t, path)
}

func TestNewPgxPoolRequiresURL(t *testing.T) {
	_, err := NewPgxPool(testContext(t), "", false)
	assert.Error(t, err)
}

// testContext stands in for testing.T.Context (Go 1.24+): a context
// cancelled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
