package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/models"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	"github.com/SscSPs/masjid_treasury/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, reference_number, direction, category, amount, fund_id, account_id,
		payment_mode, transaction_date, description, party, voucher_ref, state,
		verified_by, verified_at, approved_by, approved_at, posted_by, posted_at, journal_entry_ids,
		reversal_entry_id, reversed_by, reversed_at, reversal_reason,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for the transaction ledger.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.ReferenceNumber,
		&m.Direction,
		&m.Category,
		&m.Amount,
		&m.FundID,
		&m.AccountID,
		&m.PaymentMode,
		&m.TransactionDate,
		&m.Description,
		&m.Party,
		&m.VoucherRef,
		&m.State,
		&m.VerifiedBy,
		&m.VerifiedAt,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.PostedBy,
		&m.PostedAt,
		&m.JournalEntryIDs,
		&m.ReversalEntryID,
		&m.ReversedBy,
		&m.ReversedAt,
		&m.ReversalReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	m, err := scanTransaction(r.Pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1;`, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction", transactionID)
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactions retrieves a filtered page of transactions, newest first, using keyset pagination.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.Direction != "" {
		add("direction = ?", string(filter.Direction))
	}
	if filter.State != "" {
		add("state = ?", string(filter.State))
	}
	if filter.FundID != "" {
		add("fund_id = ?", filter.FundID)
	}
	if filter.Category != "" {
		add("category = ?", filter.Category)
	}
	if filter.From != nil {
		add("transaction_date >= ?", domain.DateOnly(*filter.From))
	}
	if filter.To != nil {
		add("transaction_date <= ?", domain.DateOnly(*filter.To))
	}
	if nextToken != nil && *nextToken != "" {
		cur, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		// Tuple comparison is concise and efficient in Postgres
		args = append(args, cur.Date, cur.CreatedAt, cur.ID)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(transaction_date, created_at, transaction_id) < ($%d, $%d, $%d)", n-2, n-1, n))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	results := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var next *string
	if len(results) > limit {
		// The token points to the last item included in this page.
		last := results[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		next = &token
		results = results[:limit]
	}
	return mapping.ToDomainTransactionSlice(results), next, nil
}

// SaveTransaction inserts a new transaction with its creation audit row.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditEntry) error {
	m := mapping.ToModelTransaction(txn)
	if m.JournalEntryIDs == nil {
		m.JournalEntryIDs = []string{}
	}
	return r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (`+transactionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28);`,
			m.TransactionID, m.ReferenceNumber, m.Direction, m.Category, m.Amount, m.FundID, m.AccountID,
			m.PaymentMode, m.TransactionDate, m.Description, m.Party, m.VoucherRef, m.State,
			m.VerifiedBy, m.VerifiedAt, m.ApprovedBy, m.ApprovedAt, m.PostedBy, m.PostedAt, m.JournalEntryIDs,
			m.ReversalEntryID, m.ReversedBy, m.ReversedAt, m.ReversalReason,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: transaction %s (%s)", apperrors.ErrDuplicate, m.TransactionID, m.ReferenceNumber)
			}
			return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
		}
		return insertAudit(ctx, tx, audit)
	})
}

// NextReferenceSequence bumps the (prefix, day) counter in one upsert.
func (r *PgxTransactionRepository) NextReferenceSequence(ctx context.Context, prefix string, day time.Time) (int, error) {
	var next int
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO reference_sequences (prefix, day, last_value) VALUES ($1, $2, 1)
		ON CONFLICT (prefix, day) DO UPDATE SET last_value = reference_sequences.last_value + 1
		RETURNING last_value;`, prefix, domain.DateOnly(day)).Scan(&next)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to allocate "+prefix+" sequence", err)
	}
	return next, nil
}

// lockState reads the current state under a row lock held until the transaction ends.
func lockState(ctx context.Context, tx pgx.Tx, transactionID string) (domain.TransactionState, error) {
	var state string
	err := tx.QueryRow(ctx, `SELECT state FROM transactions WHERE transaction_id = $1 FOR UPDATE;`, transactionID).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError("transaction", transactionID)
		}
		return "", apperrors.NewAppError(500, "failed to lock transaction "+transactionID, err)
	}
	return domain.TransactionState(state), nil
}

func expectState(ctx context.Context, tx pgx.Tx, transactionID string, from, to domain.TransactionState) error {
	current, err := lockState(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if current != from {
		return &apperrors.InvalidStateTransitionError{TransactionID: transactionID, From: string(current), To: string(to)}
	}
	return nil
}

func (r *PgxTransactionRepository) ApplyStateChange(ctx context.Context, change domain.StateChange) error {
	set := "state = $1, last_updated_at = $2, last_updated_by = $3"
	switch change.To {
	case domain.StateVerified:
		set += ", verified_by = $3, verified_at = $2"
	case domain.StateApproved:
		set += ", approved_by = $3, approved_at = $2"
	}
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if err := expectState(ctx, tx, change.TransactionID, change.From, change.To); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE transactions SET `+set+` WHERE transaction_id = $4;`,
			string(change.To), change.At, change.ActorID, change.TransactionID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update state of transaction "+change.TransactionID, err)
		}
		return insertAudit(ctx, tx, change.Audit)
	})
}

func (r *PgxTransactionRepository) CommitPosting(ctx context.Context, commit domain.PostingCommit) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if err := expectState(ctx, tx, commit.TransactionID, commit.From, domain.StatePosted); err != nil {
			return err
		}
		if err := ensureUnlocked(ctx, tx, commit.OpenPeriods); err != nil {
			return err
		}
		if err := insertEntry(ctx, tx, commit.Entry); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE transactions
			SET state = $1, posted_by = $2, posted_at = $3, journal_entry_ids = array_append(journal_entry_ids, $4),
			    last_updated_at = $3, last_updated_by = $2
			WHERE transaction_id = $5;`,
			string(domain.StatePosted), commit.PostedBy, commit.PostedAt, commit.Entry.EntryID, commit.TransactionID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark transaction "+commit.TransactionID+" posted", err)
		}
		return insertAudit(ctx, tx, commit.Audit)
	})
}

func (r *PgxTransactionRepository) CommitReversal(ctx context.Context, commit domain.ReversalCommit) error {
	rec := commit.Record
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if err := expectState(ctx, tx, commit.TransactionID, domain.StatePosted, domain.StateReversed); err != nil {
			return err
		}
		if err := ensureUnlocked(ctx, tx, commit.OpenPeriods); err != nil {
			return err
		}
		if err := insertEntry(ctx, tx, commit.Entry); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE transactions
			SET state = $1, journal_entry_ids = array_append(journal_entry_ids, $2),
			    reversal_entry_id = $2, reversed_by = $3, reversed_at = $4, reversal_reason = $5,
			    last_updated_at = $4, last_updated_by = $3
			WHERE transaction_id = $6;`,
			string(domain.StateReversed), rec.ReversalEntryID, rec.ReversedBy, rec.ReversedAt, rec.Reason, commit.TransactionID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark transaction "+commit.TransactionID+" reversed", err)
		}
		return insertAudit(ctx, tx, commit.Audit)
	})
}
