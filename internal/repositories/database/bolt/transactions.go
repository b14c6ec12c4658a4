package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/models"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	"github.com/SscSPs/masjid_treasury/internal/utils/pagination"
	bbolt "go.etcd.io/bbolt"
)

type transactionRepository struct {
	store *Store
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func loadTransaction(tx *bbolt.Tx, transactionID string) (*models.Transaction, error) {
	var m models.Transaction
	found, err := getJSON(tx.Bucket([]byte(bucketTransactions)), transactionID, &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("transaction", transactionID)
	}
	return &m, nil
}

func saveTransaction(tx *bbolt.Tx, m *models.Transaction) error {
	return putJSON(tx.Bucket([]byte(bucketTransactions)), m.TransactionID, m)
}

// expectState is the compare half of every compare-and-set below.
func expectState(m *models.Transaction, from, to domain.TransactionState) error {
	if domain.TransactionState(m.State) != from {
		return &apperrors.InvalidStateTransitionError{TransactionID: m.TransactionID, From: m.State, To: string(to)}
	}
	return nil
}

func (r *transactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		m, err := loadTransaction(tx, transactionID)
		if err != nil {
			return err
		}
		txn = mapping.ToDomainTransaction(*m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func matchesFilter(m models.Transaction, f domain.TransactionFilter) bool {
	if f.Direction != "" && m.Direction != string(f.Direction) {
		return false
	}
	if f.State != "" && m.State != string(f.State) {
		return false
	}
	if f.FundID != "" && m.FundID != f.FundID {
		return false
	}
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	if f.From != nil && m.TransactionDate.Before(domain.DateOnly(*f.From)) {
		return false
	}
	if f.To != nil && m.TransactionDate.After(domain.DateOnly(*f.To)) {
		return false
	}
	return true
}

func cursorOf(m models.Transaction) pagination.Cursor {
	return pagination.Cursor{Date: m.TransactionDate, CreatedAt: m.CreatedAt, ID: m.TransactionID}
}

// ListTransactions scans the bucket and pages newest first by (date, created_at, id).
func (r *transactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var after *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = &c
	}

	var rows []models.Transaction
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketTransactions)).ForEach(func(k, v []byte) error {
			var m models.Transaction
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("failed to decode transaction %s: %w", k, err)
			}
			if !matchesFilter(m, filter) {
				return nil
			}
			if after != nil && !after.After(cursorOf(m)) {
				return nil
			}
			rows = append(rows, m)
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		return cursorOf(rows[i]).After(cursorOf(rows[j]))
	})
	var next *string
	if len(rows) > limit {
		rows = rows[:limit]
		token := pagination.EncodeToken(cursorOf(rows[limit-1]))
		next = &token
	}
	return mapping.ToDomainTransactionSlice(rows), next, nil
}

func (r *transactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditEntry) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(bucketTransactions)).Get([]byte(txn.TransactionID)) != nil {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		m := mapping.ToModelTransaction(txn)
		if err := saveTransaction(tx, &m); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}

func (r *transactionRepository) NextReferenceSequence(ctx context.Context, prefix string, day time.Time) (int, error) {
	key := []byte(prefix + "|" + domain.DateOnly(day).Format(dayKeyFormat))
	var next uint64
	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketSequences))
		if cur := b.Get(key); cur != nil {
			next = binary.BigEndian.Uint64(cur)
		}
		next++
		return b.Put(key, itob(next))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s sequence: %w", prefix, err)
	}
	return int(next), nil
}

func (r *transactionRepository) ApplyStateChange(ctx context.Context, change domain.StateChange) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		m, err := loadTransaction(tx, change.TransactionID)
		if err != nil {
			return err
		}
		if err := expectState(m, change.From, change.To); err != nil {
			return err
		}
		at := change.At
		m.State = string(change.To)
		switch change.To {
		case domain.StateVerified:
			m.VerifiedBy, m.VerifiedAt = &change.ActorID, &at
		case domain.StateApproved:
			m.ApprovedBy, m.ApprovedAt = &change.ActorID, &at
		}
		m.LastUpdatedAt, m.LastUpdatedBy = at, change.ActorID
		if err := saveTransaction(tx, m); err != nil {
			return err
		}
		return appendAudit(tx, change.Audit)
	})
}

func (r *transactionRepository) CommitPosting(ctx context.Context, commit domain.PostingCommit) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		m, err := loadTransaction(tx, commit.TransactionID)
		if err != nil {
			return err
		}
		if err := expectState(m, commit.From, domain.StatePosted); err != nil {
			return err
		}
		if err := ensureUnlocked(tx, commit.OpenPeriods); err != nil {
			return err
		}
		if err := writeEntry(tx, commit.Entry); err != nil {
			return err
		}
		at := commit.PostedAt
		m.State = string(domain.StatePosted)
		m.PostedBy, m.PostedAt = &commit.PostedBy, &at
		m.JournalEntryIDs = append(m.JournalEntryIDs, commit.Entry.EntryID)
		m.LastUpdatedAt, m.LastUpdatedBy = at, commit.PostedBy
		if err := saveTransaction(tx, m); err != nil {
			return err
		}
		return appendAudit(tx, commit.Audit)
	})
}

func (r *transactionRepository) CommitReversal(ctx context.Context, commit domain.ReversalCommit) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		m, err := loadTransaction(tx, commit.TransactionID)
		if err != nil {
			return err
		}
		if err := expectState(m, domain.StatePosted, domain.StateReversed); err != nil {
			return err
		}
		if err := ensureUnlocked(tx, commit.OpenPeriods); err != nil {
			return err
		}
		if err := writeEntry(tx, commit.Entry); err != nil {
			return err
		}
		rec := commit.Record
		m.State = string(domain.StateReversed)
		m.JournalEntryIDs = append(m.JournalEntryIDs, commit.Entry.EntryID)
		m.ReversalEntryID = &rec.ReversalEntryID
		m.ReversedBy = &rec.ReversedBy
		m.ReversedAt = &rec.ReversedAt
		m.ReversalReason = &rec.Reason
		m.LastUpdatedAt, m.LastUpdatedBy = rec.ReversedAt, rec.ReversedBy
		if err := saveTransaction(tx, m); err != nil {
			return err
		}
		return appendAudit(tx, commit.Audit)
	})
}
