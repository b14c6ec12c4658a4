package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/models"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	bbolt "go.etcd.io/bbolt"
)

const dayKeyFormat = "20060102"

// lineRecord is the per-account copy of a journal line, keyed in ledger order.
type lineRecord struct {
	models.JournalLine
	TransactionID string    `json:"transactionID"`
	Kind          string    `json:"kind"`
	EntryDate     time.Time `json:"entryDate"`
}

func (l lineRecord) toPosted() domain.PostedLine {
	return domain.PostedLine{
		Line:          mapping.ToDomainLine(l.JournalLine),
		EntryID:       l.EntryID,
		TransactionID: l.TransactionID,
		Kind:          domain.EntryKind(l.Kind),
		EntryDate:     l.EntryDate,
	}
}

// lineKey sorts by entry date, then entry creation time, then entry id and line number.
func lineKey(e models.JournalEntry, lineNo int) []byte {
	return []byte(fmt.Sprintf("%s|%020d|%s|%04d", e.EntryDate.UTC().Format(dayKeyFormat), e.CreatedAt.UnixNano(), e.EntryID, lineNo))
}

// writeEntry stores an entry and indexes its lines per account.
func writeEntry(tx *bbolt.Tx, entry domain.JournalEntry) error {
	entries := tx.Bucket([]byte(bucketEntries))
	if entries.Get([]byte(entry.EntryID)) != nil {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	m := mapping.ToModelJournalEntry(entry)
	if err := putJSON(entries, m.EntryID, m); err != nil {
		return err
	}
	root := tx.Bucket([]byte(bucketAccountLines))
	for _, line := range m.Lines {
		b, err := root.CreateBucketIfNotExists([]byte(line.AccountID))
		if err != nil {
			return fmt.Errorf("failed to create line index for account %s: %w", line.AccountID, err)
		}
		rec := lineRecord{JournalLine: line, TransactionID: m.TransactionID, Kind: m.Kind, EntryDate: m.EntryDate}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode line %s: %w", line.LineID, err)
		}
		if err := b.Put(lineKey(m, line.LineNo), data); err != nil {
			return err
		}
	}
	return nil
}

func loadEntry(tx *bbolt.Tx, entryID string) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	found, err := getJSON(tx.Bucket([]byte(bucketEntries)), entryID, &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("journal entry", entryID)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

type journalRepository struct {
	store *Store
}

var _ portsrepo.JournalReader = (*journalRepository)(nil)

func (r *journalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		var err error
		entry, err = loadEntry(tx, entryID)
		return err
	})
	return entry, err
}

func (r *journalRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	entries := []domain.JournalEntry{}
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		txn, err := loadTransaction(tx, transactionID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, id := range txn.JournalEntryIDs {
			e, err := loadEntry(tx, id)
			if err != nil {
				return err
			}
			entries = append(entries, *e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// accountLines reads one account's lines dated on or before until.
func accountLines(tx *bbolt.Tx, accountID string, until time.Time) ([]domain.PostedLine, error) {
	out := []domain.PostedLine{}
	b := tx.Bucket([]byte(bucketAccountLines)).Bucket([]byte(accountID))
	if b == nil {
		return out, nil
	}
	limit := domain.DateOnly(until).Format(dayKeyFormat)
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if string(k[:len(dayKeyFormat)]) > limit {
			break
		}
		var rec lineRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode line %s: %w", k, err)
		}
		out = append(out, rec.toPosted())
	}
	return out, nil
}

func (r *journalRepository) ListAccountLines(ctx context.Context, accountID string, until time.Time) ([]domain.PostedLine, error) {
	var lines []domain.PostedLine
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		var err error
		lines, err = accountLines(tx, accountID, until)
		return err
	})
	return lines, err
}
