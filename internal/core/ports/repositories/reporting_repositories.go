package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// LoadSnapshot reads the chart, the funds and every journal line dated on or
	// before until, all from one consistent read-only view of the store.
	LoadSnapshot(ctx context.Context, until time.Time) (*domain.LedgerSnapshot, error)
}
