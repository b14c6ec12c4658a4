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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const accountColumns = `account_id, code, name, account_type, parent_account_id, fund_id, description, is_active,
		created_at, created_by, last_updated_at, last_updated_by`

const fundColumns = `fund_id, name, kind, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxChartRepository struct {
	BaseRepository
}

// newPgxChartRepository creates a new repository for accounts and funds.
func newPgxChartRepository(pool *pgxpool.Pool) *PgxChartRepository {
	return &PgxChartRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxChartRepository implements portsrepo.ChartRepositoryFacade
var _ portsrepo.ChartRepositoryFacade = (*PgxChartRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.FundID,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanFund(row pgx.Row) (models.Fund, error) {
	var m models.Fund
	err := row.Scan(&m.FundID, &m.Name, &m.Kind, &m.Description, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

func (r *PgxChartRepository) findAccount(ctx context.Context, where string, arg string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where + ` = $1;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account", arg)
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+arg, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxChartRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findAccount(ctx, "account_id", accountID)
}

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxChartRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.findAccount(ctx, "code", code)
}

func listAccounts(ctx context.Context, q querier) ([]domain.Account, error) {
	rows, err := q.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// ListAccounts returns the whole chart ordered by code.
func (r *PgxChartRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return listAccounts(ctx, r.Pool)
}

func (r *PgxChartRepository) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	var used bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1);`, accountID).Scan(&used)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check lines of account "+accountID, err)
	}
	return used, nil
}

// SaveAccount inserts a new account and its audit row.
func (r *PgxChartRepository) SaveAccount(ctx context.Context, account domain.Account, audit domain.AuditEntry) error {
	m := mapping.ToModelAccount(account)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (`+accountColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
			m.AccountID, m.Code, m.Name, m.AccountType, m.ParentAccountID, m.FundID, m.Description, m.IsActive,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, m.Code)
			}
			return fmt.Errorf("failed to save account %s: %w", m.Code, err)
		}
		return insertAudit(ctx, tx, audit)
	})
}

// UpdateAccount updates the editable fields of an account.
func (r *PgxChartRepository) UpdateAccount(ctx context.Context, account domain.Account, audit domain.AuditEntry) error {
	m := mapping.ToModelAccount(account)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE accounts
			SET name = $1, description = $2, fund_id = $3, last_updated_at = $4, last_updated_by = $5
			WHERE account_id = $6;`,
			m.Name, m.Description, m.FundID, m.LastUpdatedAt, m.LastUpdatedBy, m.AccountID,
		)
		if err != nil {
			return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("account", m.AccountID)
		}
		return insertAudit(ctx, tx, audit)
	})
}

// DeactivateAccount marks an account as inactive.
func (r *PgxChartRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time, audit domain.AuditEntry) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE accounts SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
			WHERE account_id = $3;`,
			now, userID, accountID,
		)
		if err != nil {
			return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("account", accountID)
		}
		return insertAudit(ctx, tx, audit)
	})
}

func (r *PgxChartRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	m, err := scanFund(r.Pool.QueryRow(ctx, `SELECT `+fundColumns+` FROM funds WHERE fund_id = $1;`, fundID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("fund", fundID)
		}
		return nil, apperrors.NewAppError(500, "failed to find fund "+fundID, err)
	}
	fund := mapping.ToDomainFund(m)
	return &fund, nil
}

func listFunds(ctx context.Context, q querier) ([]domain.Fund, error) {
	rows, err := q.Query(ctx, `SELECT `+fundColumns+` FROM funds ORDER BY fund_id;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query funds", err)
	}
	defer rows.Close()

	funds := []models.Fund{}
	for rows.Next() {
		m, err := scanFund(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fund row", err)
		}
		funds = append(funds, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fund rows", err)
	}
	return mapping.ToDomainFundSlice(funds), nil
}

func (r *PgxChartRepository) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	return listFunds(ctx, r.Pool)
}

func (r *PgxChartRepository) SaveFund(ctx context.Context, fund domain.Fund, audit domain.AuditEntry) error {
	m := mapping.ToModelFund(fund)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO funds (`+fundColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
			m.FundID, m.Name, m.Kind, m.Description, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: fund %s already exists", apperrors.ErrDuplicate, m.FundID)
			}
			return fmt.Errorf("failed to save fund %s: %w", m.FundID, err)
		}
		return insertAudit(ctx, tx, audit)
	})
}
