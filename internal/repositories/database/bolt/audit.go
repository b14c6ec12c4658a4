package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/models"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	bbolt "go.etcd.io/bbolt"
)

type auditRepository struct {
	store *Store
}

var _ portsrepo.AuditRepository = (*auditRepository)(nil)

func auditBucketKey(entityType, entityID string) []byte {
	return []byte(entityType + "/" + entityID)
}

// appendAudit writes an audit row inside the caller's update transaction.
func appendAudit(tx *bbolt.Tx, entry domain.AuditEntry) error {
	root := tx.Bucket([]byte(bucketAudit))
	b, err := root.CreateBucketIfNotExists(auditBucketKey(entry.EntityType, entry.EntityID))
	if err != nil {
		return fmt.Errorf("failed to create audit bucket: %w", err)
	}
	seq, err := b.NextSequence()
	if err != nil {
		return err
	}
	data, err := json.Marshal(mapping.ToModelAuditLog(entry))
	if err != nil {
		return fmt.Errorf("failed to encode audit row: %w", err)
	}
	return b.Put(itob(seq), data)
}

// ListAuditEntries returns the rows of one entity in the order they were written.
func (r *auditRepository) ListAuditEntries(ctx context.Context, entityType, entityID string) ([]domain.AuditEntry, error) {
	var rows []models.AuditLog
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketAudit)).Bucket(auditBucketKey(entityType, entityID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var row models.AuditLog
			if err := json.Unmarshal(v, &row); err != nil {
				return fmt.Errorf("failed to decode audit row: %w", err)
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAuditEntrySlice(rows), nil
}
