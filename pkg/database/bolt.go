package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SscSPs/masjid_treasury/internal/repositories/database/bolt"
)

// OpenBoltStore opens the embedded store at path, creating its directory.
func OpenBoltStore(path string) (*bolt.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}
	store, err := bolt.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Info("Opened bolt store", slog.String("path", store.Path()))
	return store, nil
}
