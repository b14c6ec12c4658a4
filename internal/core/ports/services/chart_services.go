package services

import (
	"context"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/dto"
)

// ChartReaderSvc is the lookup contract of the chart of accounts and fund registry.
type ChartReaderSvc interface {
	ResolveAccount(ctx context.Context, accountID string) (*domain.Account, error)
	ResolveAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ResolveFund(ctx context.Context, fundID string) (*domain.Fund, error)
	IsCompatible(account domain.Account, fund domain.Fund) bool

	// ResolveCategory returns the posting rule of a category, or a validation error if unknown.
	ResolveCategory(direction domain.Direction, category string) (domain.CategoryRule, error)

	// ResolveCounterAccount picks the cash or bank account for a payment mode and fund.
	ResolveCounterAccount(ctx context.Context, mode domain.PaymentMode, fundID string) (*domain.Account, error)

	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
	ListFunds(ctx context.Context) ([]domain.Fund, error)
	ListCategories(direction domain.Direction) []domain.CategoryRule
}

// ChartAdminSvc is the administrative interface over the chart; it requires the Treasurer capability.
type ChartAdminSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor domain.Actor) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, actor domain.Actor) error
	CreateFund(ctx context.Context, req dto.CreateFundRequest, actor domain.Actor) (*domain.Fund, error)

	// Seed creates the funds and accounts that do not exist yet and returns how many were created.
	Seed(ctx context.Context, funds []domain.Fund, accounts []domain.Account, actor domain.Actor) (int, error)
}

// ChartSvcFacade combines lookup and administration.
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartAdminSvc
}
