package bolt

import (
	"context"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	bbolt "go.etcd.io/bbolt"
)

type reportingRepository struct {
	store *Store
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// LoadSnapshot reads everything in one View transaction, so a posting that
// commits concurrently is either wholly in the snapshot or wholly absent.
func (r *reportingRepository) LoadSnapshot(ctx context.Context, until time.Time) (*domain.LedgerSnapshot, error) {
	snap := &domain.LedgerSnapshot{Until: domain.DateOnly(until), Lines: []domain.PostedLine{}}
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		accounts, err := listAccounts(tx)
		if err != nil {
			return err
		}
		funds, err := listFunds(tx)
		if err != nil {
			return err
		}
		snap.Accounts = mapping.ToDomainAccountSlice(accounts)
		snap.Funds = mapping.ToDomainFundSlice(funds)
		for _, a := range accounts {
			lines, err := accountLines(tx, a.AccountID, snap.Until)
			if err != nil {
				return err
			}
			snap.Lines = append(snap.Lines, lines...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
