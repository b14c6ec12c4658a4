package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart code (e.g. "1000").
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts returns every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// AccountHasLines reports whether any journal line references the account.
	AccountHasLines(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	// SaveAccount persists a new account. Returns ErrDuplicate when the code is taken.
	SaveAccount(ctx context.Context, account domain.Account, audit domain.AuditEntry) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account, audit domain.AuditEntry) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time, audit domain.AuditEntry) error
}

// FundReader defines read operations for the fund registry
type FundReader interface {
	FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error)
	ListFunds(ctx context.Context) ([]domain.Fund, error)
}

// FundWriter defines write operations for the fund registry
type FundWriter interface {
	// SaveFund persists a new fund. Returns ErrDuplicate when the id is taken.
	SaveFund(ctx context.Context, fund domain.Fund, audit domain.AuditEntry) error
}

// ChartRepositoryFacade combines account and fund persistence.
type ChartRepositoryFacade interface {
	AccountReader
	AccountWriter
	FundReader
	FundWriter
}
