package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/google/uuid"
)

// chartService implements the ChartSvcFacade interface
type chartService struct {
	BaseService
	repo  portsrepo.ChartRepositoryFacade
	rules domain.PostingRules
}

// ChartServiceOption is a functional option for configuring the chart service
type ChartServiceOption func(*chartService)

// WithChartClock sets the clock used for audit fields.
func WithChartClock(clock portssvc.Clock) ChartServiceOption {
	return func(s *chartService) {
		s.Clock = clock
	}
}

// NewChartService creates the chart of accounts and fund registry service.
func NewChartService(repo portsrepo.ChartRepositoryFacade, rules domain.PostingRules, options ...ChartServiceOption) portssvc.ChartSvcFacade {
	svc := &chartService{
		repo:  repo,
		rules: rules,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func (s *chartService) ResolveAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("resolve account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *chartService) ResolveAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("resolve account code %s: %w", code, err)
	}
	return account, nil
}

func (s *chartService) ResolveFund(ctx context.Context, fundID string) (*domain.Fund, error) {
	fund, err := s.repo.FindFundByID(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("resolve fund %s: %w", fundID, err)
	}
	return fund, nil
}

func (s *chartService) IsCompatible(account domain.Account, fund domain.Fund) bool {
	return domain.IsCompatible(account, fund)
}

func (s *chartService) ResolveCategory(direction domain.Direction, category string) (domain.CategoryRule, error) {
	if s.rules.Categories == nil {
		return domain.CategoryRule{}, fmt.Errorf("%w: no category table configured", apperrors.ErrValidation)
	}
	rule, ok := s.rules.Categories.Lookup(direction, category)
	if !ok {
		return domain.CategoryRule{}, fmt.Errorf("%w: unknown %s category %q", apperrors.ErrValidation, strings.ToLower(string(direction)), category)
	}
	return rule, nil
}

func (s *chartService) ResolveCounterAccount(ctx context.Context, mode domain.PaymentMode, fundID string) (*domain.Account, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment mode %q", apperrors.ErrValidation, mode)
	}
	code := s.rules.Counter.Resolve(mode, fundID)
	if code == "" {
		return nil, fmt.Errorf("%w: no counter account configured for %s in fund %s", apperrors.ErrValidation, mode, fundID)
	}
	return s.ResolveAccountByCode(ctx, code)
}

func (s *chartService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	if includeInactive {
		return accounts, nil
	}
	active := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *chartService) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	funds, err := s.repo.ListFunds(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list funds")
		return nil, err
	}
	return funds, nil
}

func (s *chartService) ListCategories(direction domain.Direction) []domain.CategoryRule {
	if s.rules.Categories == nil {
		return []domain.CategoryRule{}
	}
	return s.rules.Categories.List(direction)
}

func (s *chartService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, "create account", domain.CapTreasurer); err != nil {
		return nil, err
	}
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            strings.TrimSpace(req.Code),
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		FundID:          req.FundID,
		Description:     req.Description,
		IsActive:        true,
	}
	if err := s.saveNewAccount(ctx, account, actor); err != nil {
		return nil, err
	}
	created, err := s.repo.FindAccountByID(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// saveNewAccount validates references and persists an account with its audit row.
func (s *chartService) saveNewAccount(ctx context.Context, account domain.Account, actor domain.Actor) error {
	if account.Code == "" || account.Name == "" {
		return fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !account.AccountType.IsValid() {
		return fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, account.AccountType)
	}
	if account.ParentAccountID != "" {
		parent, err := s.repo.FindAccountByID(ctx, account.ParentAccountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", account.ParentAccountID))
			return fmt.Errorf("invalid parent account: %w", err)
		}
		if parent.AccountType != account.AccountType {
			return fmt.Errorf("%w: parent account %s is %s, not %s", apperrors.ErrValidation, parent.Code, parent.AccountType, account.AccountType)
		}
	}
	if account.FundID != "" {
		fund, err := s.repo.FindFundByID(ctx, account.FundID)
		if err != nil {
			return fmt.Errorf("invalid fund: %w", err)
		}
		if reason := domain.CompatibilityReason(account, *fund); reason != "" {
			return &apperrors.FundMismatchError{AccountID: account.Code, FundID: fund.FundID, Reason: reason}
		}
	}

	now := s.Now()
	account.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: actor.ID, LastUpdatedAt: now, LastUpdatedBy: actor.ID}
	audit := newAuditEntry(domain.EntityAccount, account.AccountID, domain.ActionCreate, actor, now, account, "")
	if err := s.repo.SaveAccount(ctx, account, audit); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", account.Code))
		return err
	}
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return nil
}

func (s *chartService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor domain.Actor) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, "update account", domain.CapTreasurer); err != nil {
		return nil, err
	}
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.FundID != nil && *req.FundID != account.FundID {
		used, err := s.repo.AccountHasLines(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, fmt.Errorf("%w: fund restriction of account %s cannot change once it has journal lines", apperrors.ErrValidation, account.Code)
		}
		if *req.FundID != "" {
			fund, err := s.repo.FindFundByID(ctx, *req.FundID)
			if err != nil {
				return nil, fmt.Errorf("invalid fund: %w", err)
			}
			candidate := *account
			candidate.FundID = fund.FundID
			if reason := domain.CompatibilityReason(candidate, *fund); reason != "" {
				return nil, &apperrors.FundMismatchError{AccountID: account.Code, FundID: fund.FundID, Reason: reason}
			}
		}
		account.FundID = *req.FundID
	}

	now := s.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actor.ID
	audit := newAuditEntry(domain.EntityAccount, accountID, domain.ActionUpdate, actor, now, account, "")
	if err := s.repo.UpdateAccount(ctx, *account, audit); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *chartService) DeactivateAccount(ctx context.Context, accountID string, actor domain.Actor) error {
	if err := s.Authorize(ctx, actor, "deactivate account", domain.CapTreasurer); err != nil {
		return err
	}
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil
	}
	now := s.Now()
	audit := newAuditEntry(domain.EntityAccount, accountID, domain.ActionDeactivate, actor, now, nil, "")
	if err := s.repo.DeactivateAccount(ctx, accountID, actor.ID, now, audit); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *chartService) CreateFund(ctx context.Context, req dto.CreateFundRequest, actor domain.Actor) (*domain.Fund, error) {
	if err := s.Authorize(ctx, actor, "create fund", domain.CapTreasurer); err != nil {
		return nil, err
	}
	fund := domain.Fund{
		FundID:      strings.ToUpper(strings.TrimSpace(req.FundID)),
		Name:        strings.TrimSpace(req.Name),
		Kind:        req.Kind,
		Description: req.Description,
	}
	if err := s.saveNewFund(ctx, fund, actor); err != nil {
		return nil, err
	}
	return s.repo.FindFundByID(ctx, fund.FundID)
}

func (s *chartService) saveNewFund(ctx context.Context, fund domain.Fund, actor domain.Actor) error {
	if fund.FundID == "" || fund.Name == "" {
		return fmt.Errorf("%w: fund id and name are required", apperrors.ErrValidation)
	}
	if !fund.Kind.IsValid() {
		return fmt.Errorf("%w: invalid fund kind %q", apperrors.ErrValidation, fund.Kind)
	}
	now := s.Now()
	fund.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: actor.ID, LastUpdatedAt: now, LastUpdatedBy: actor.ID}
	audit := newAuditEntry(domain.EntityFund, fund.FundID, domain.ActionCreate, actor, now, fund, "")
	if err := s.repo.SaveFund(ctx, fund, audit); err != nil {
		s.LogError(ctx, err, "Failed to save fund", slog.String("fund_id", fund.FundID))
		return err
	}
	s.LogInfo(ctx, "Fund created", slog.String("fund_id", fund.FundID), slog.String("kind", string(fund.Kind)))
	return nil
}

func (s *chartService) Seed(ctx context.Context, funds []domain.Fund, accounts []domain.Account, actor domain.Actor) (int, error) {
	if err := s.Authorize(ctx, actor, "seed chart", domain.CapTreasurer); err != nil {
		return 0, err
	}
	created := 0
	for _, f := range funds {
		_, err := s.repo.FindFundByID(ctx, f.FundID)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return created, err
		}
		if err := s.saveNewFund(ctx, f, actor); err != nil {
			return created, fmt.Errorf("seed fund %s: %w", f.FundID, err)
		}
		created++
	}
	// Parents come before children in the seed, so references resolve in order.
	for _, a := range accounts {
		_, err := s.repo.FindAccountByCode(ctx, a.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return created, err
		}
		if a.AccountID == "" {
			a.AccountID = uuid.NewString()
		}
		a.IsActive = true
		if err := s.saveNewAccount(ctx, a, actor); err != nil {
			return created, fmt.Errorf("seed account %s: %w", a.Code, err)
		}
		created++
	}
	s.LogInfo(ctx, "Chart seeded", slog.Int("created", created))
	return created, nil
}
