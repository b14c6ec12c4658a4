package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	bbolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	bucketAccounts     = "accounts"
	bucketAccountCodes = "account_codes"
	bucketFunds        = "funds"
	bucketTransactions = "transactions"
	bucketEntries      = "journal_entries"
	bucketAccountLines = "account_lines" // one nested bucket per account
	bucketAudit        = "audit_log"     // one nested bucket per entity
	bucketPeriodLocks  = "period_locks"
	bucketSequences    = "reference_sequences"
)

var allBuckets = []string{
	bucketAccounts, bucketAccountCodes, bucketFunds, bucketTransactions, bucketEntries,
	bucketAccountLines, bucketAudit, bucketPeriodLocks, bucketSequences,
}

// Store is the embedded single-file ledger store. bbolt allows one writer at a
// time, so every Update runs serialised against the others.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the store file and initialises the buckets.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.db.Path()
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	chart := &chartRepository{store: s}
	txns := &transactionRepository{store: s}
	return portsrepo.RepositoryProvider{
		ChartRepo:       chart,
		TransactionRepo: txns,
		JournalRepo:     &journalRepository{store: s},
		ReportingRepo:   &reportingRepository{store: s},
		PeriodLockRepo:  &periodLockRepository{store: s},
		AuditRepo:       &auditRepository{store: s},
	}
}

func getJSON(b *bbolt.Bucket, key string, v any) (bool, error) {
	data := b.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func putJSON(b *bbolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return b.Put([]byte(key), data)
}

// itob converts a sequence number to a sortable key.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
