package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/models"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, transaction_id, kind, reversal_of, entry_date, description, fund_id, created_at, created_by`

// postedLineQuery selects lines joined to their entry, in ledger order.
const postedLineQuery = `
	SELECT l.line_id, l.entry_id, l.line_no, l.account_id, l.side, l.amount, l.fund_id,
	       e.transaction_id, e.kind, e.entry_date
	FROM journal_lines l
	JOIN journal_entries e ON l.entry_id = e.entry_id
`

const postedLineOrder = ` ORDER BY e.entry_date, e.created_at, e.entry_id, l.line_no`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalReader
var _ portsrepo.JournalReader = (*PgxJournalRepository)(nil)

// insertEntry writes an entry and its lines inside the caller's transaction.
func insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	_, err := tx.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		m.EntryID, m.TransactionID, m.Kind, m.ReversalOf, m.EntryDate, m.Description, m.FundID, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s entry for transaction %s", apperrors.ErrDuplicate, m.Kind, m.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, line_no, account_id, side, amount, fund_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, l := range m.Lines {
		batch.Queue(lineQuery, l.LineID, l.EntryID, l.LineNo, l.AccountID, l.Side, l.Amount, l.FundID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines of journal entry "+m.EntryID, err)
	}
	return nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(&m.EntryID, &m.TransactionID, &m.Kind, &m.ReversalOf, &m.EntryDate, &m.Description, &m.FundID, &m.CreatedAt, &m.CreatedBy)
	return m, err
}

func (r *PgxJournalRepository) linesOf(ctx context.Context, entryIDs []string) (map[string][]models.JournalLine, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT line_id, entry_id, line_no, account_id, side, amount, fund_id
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_no;`, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	defer rows.Close()

	out := make(map[string][]models.JournalLine, len(entryIDs))
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.LineNo, &l.AccountID, &l.Side, &l.Amount, &l.FundID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line", err)
		}
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal lines", err)
	}
	return out, nil
}

// FindEntryByID retrieves a journal entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	m, err := scanEntry(r.Pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1;`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry", entryID)
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry "+entryID, err)
	}
	lines, err := r.linesOf(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	m.Lines = lines[entryID]
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindEntriesByTransactionID returns the posting entry first, then the reversal if any.
func (r *PgxJournalRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+entryColumns+` FROM journal_entries
		WHERE transaction_id = $1
		ORDER BY created_at, kind;`, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries of transaction "+transactionID, err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entries", err)
	}
	if len(entries) == 0 {
		return []domain.JournalEntry{}, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	lines, err := r.linesOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].EntryID]
	}
	return mapping.ToDomainJournalEntrySlice(entries), nil
}

func scanPostedLines(rows pgx.Rows) ([]domain.PostedLine, error) {
	defer rows.Close()
	out := []domain.PostedLine{}
	for rows.Next() {
		var (
			l         models.JournalLine
			txnID     string
			kind      string
			entryDate time.Time
		)
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.LineNo, &l.AccountID, &l.Side, &l.Amount, &l.FundID, &txnID, &kind, &entryDate); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan posted line", err)
		}
		out = append(out, domain.PostedLine{
			Line:          mapping.ToDomainLine(l),
			EntryID:       l.EntryID,
			TransactionID: txnID,
			Kind:          domain.EntryKind(kind),
			EntryDate:     entryDate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating posted lines", err)
	}
	return out, nil
}

// ListAccountLines returns one account's lines dated on or before until.
func (r *PgxJournalRepository) ListAccountLines(ctx context.Context, accountID string, until time.Time) ([]domain.PostedLine, error) {
	rows, err := r.Pool.Query(ctx, postedLineQuery+`WHERE l.account_id = $1 AND e.entry_date <= $2`+postedLineOrder+`;`,
		accountID, domain.DateOnly(until))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines of account "+accountID, err)
	}
	return scanPostedLines(rows)
}
