package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/core/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockChartRepository is a mock type for the ChartRepositoryFacade interface
type MockChartRepository struct {
	mock.Mock
}

func (m *MockChartRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockChartRepository) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChartRepository) SaveAccount(ctx context.Context, account domain.Account, audit domain.AuditEntry) error {
	args := m.Called(ctx, account, audit)
	return args.Error(0)
}

func (m *MockChartRepository) UpdateAccount(ctx context.Context, account domain.Account, audit domain.AuditEntry) error {
	args := m.Called(ctx, account, audit)
	return args.Error(0)
}

func (m *MockChartRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time, audit domain.AuditEntry) error {
	args := m.Called(ctx, accountID, userID, now, audit)
	return args.Error(0)
}

func (m *MockChartRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fund), args.Error(1)
}

func (m *MockChartRepository) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fund), args.Error(1)
}

func (m *MockChartRepository) SaveFund(ctx context.Context, fund domain.Fund, audit domain.AuditEntry) error {
	args := m.Called(ctx, fund, audit)
	return args.Error(0)
}

type ChartServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	mockRepo *MockChartRepository
	service  portssvc.ChartSvcFacade
}

func (suite *ChartServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	suite.mockRepo = new(MockChartRepository)
	suite.service = services.NewChartService(suite.mockRepo, testRules(), services.WithChartClock(services.FixedClock(suite.now)))
}

func TestChartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChartServiceTestSuite))
}

func (suite *ChartServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1300", Name: " Petty Cash ", AccountType: domain.Asset}

	suite.mockRepo.On("SaveAccount", suite.ctx,
		mock.MatchedBy(func(a domain.Account) bool {
			return a.Code == "1300" && a.Name == "Petty Cash" && a.IsActive && a.CreatedBy == treasurer.ID && a.CreatedAt.Equal(suite.now)
		}),
		mock.MatchedBy(func(e domain.AuditEntry) bool {
			return e.Action == domain.ActionCreate && e.EntityType == domain.EntityAccount && e.NewValue != ""
		}),
	).Return(nil).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, mock.AnythingOfType("string")).
		Return(&domain.Account{AccountID: "acc-petty", Code: "1300", Name: "Petty Cash", AccountType: domain.Asset, IsActive: true}, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, treasurer)

	suite.Require().NoError(err)
	suite.Equal("1300", account.Code)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartServiceTestSuite) TestCreateAccount_RequiresTreasurer() {
	req := dto.CreateAccountRequest{Code: "1300", Name: "Petty Cash", AccountType: domain.Asset}

	account, err := suite.service.CreateAccount(suite.ctx, req, approver)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrInsufficientRole)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChartServiceTestSuite) TestCreateAccount_RingFencedLiabilityRejected() {
	req := dto.CreateAccountRequest{Code: "2100", Name: "Zakat Payable", AccountType: domain.Liability, FundID: "ZAKAT"}
	suite.mockRepo.On("FindFundByID", suite.ctx, "ZAKAT").
		Return(&domain.Fund{FundID: "ZAKAT", Name: "Zakat Fund", Kind: domain.FundRestricted}, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, req, treasurer)

	suite.ErrorIs(err, apperrors.ErrFundMismatch)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash again", AccountType: domain.Asset}
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account"), mock.AnythingOfType("domain.AuditEntry")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(suite.ctx, req, treasurer)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartServiceTestSuite) TestUpdateAccount_FundLockedOnceUsed() {
	existing := &domain.Account{AccountID: "acc-zbank", Code: "1200", Name: "Zakat Bank", AccountType: domain.Asset, FundID: "ZAKAT", IsActive: true}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-zbank").Return(existing, nil).Once()
	suite.mockRepo.On("AccountHasLines", suite.ctx, "acc-zbank").Return(true, nil).Once()

	general := ""
	_, err := suite.service.UpdateAccount(suite.ctx, "acc-zbank", dto.UpdateAccountRequest{FundID: &general}, treasurer)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChartServiceTestSuite) TestUpdateAccount_RenamesAndAudits() {
	existing := &domain.Account{AccountID: "acc-cash", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-cash").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx,
		mock.MatchedBy(func(a domain.Account) bool { return a.Name == "Cash in Hand" && a.LastUpdatedBy == treasurer.ID }),
		mock.MatchedBy(func(e domain.AuditEntry) bool { return e.Action == domain.ActionUpdate }),
	).Return(nil).Once()

	name := "Cash in Hand"
	account, err := suite.service.UpdateAccount(suite.ctx, "acc-cash", dto.UpdateAccountRequest{Name: &name}, treasurer)

	suite.Require().NoError(err)
	suite.Equal("Cash in Hand", account.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-old").
		Return(&domain.Account{AccountID: "acc-old", IsActive: false}, nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, "acc-old", treasurer)

	suite.NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ChartServiceTestSuite) TestDeactivateAccount_RepoError() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-cash").
		Return(&domain.Account{AccountID: "acc-cash", IsActive: true}, nil).Once()
	suite.mockRepo.On("DeactivateAccount", suite.ctx, "acc-cash", treasurer.ID, suite.now, mock.AnythingOfType("domain.AuditEntry")).
		Return(assert.AnError).Once()

	err := suite.service.DeactivateAccount(suite.ctx, "acc-cash", treasurer)

	suite.ErrorIs(err, assert.AnError)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartServiceTestSuite) TestSeed_SkipsExisting() {
	funds := []domain.Fund{{FundID: "GENERAL", Name: "General Fund", Kind: domain.FundGeneral}}
	accounts := []domain.Account{
		{Code: "1000", Name: "Cash", AccountType: domain.Asset},
		{Code: "4200", Name: "Donations", AccountType: domain.Income},
	}
	suite.mockRepo.On("FindFundByID", suite.ctx, "GENERAL").Return(&funds[0], nil).Once()
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1000").Return(&domain.Account{AccountID: "acc-cash"}, nil).Once()
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "4200").Return(nil, apperrors.NewNotFoundError("account", "4200")).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx,
		mock.MatchedBy(func(a domain.Account) bool { return a.Code == "4200" && a.AccountID != "" && a.IsActive }),
		mock.AnythingOfType("domain.AuditEntry"),
	).Return(nil).Once()

	created, err := suite.service.Seed(suite.ctx, funds, accounts, treasurer)

	suite.Require().NoError(err)
	suite.Equal(1, created)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartServiceTestSuite) TestResolveCounterAccount() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1200").
		Return(&domain.Account{AccountID: "acc-zbank", Code: "1200"}, nil).Once()

	account, err := suite.service.ResolveCounterAccount(suite.ctx, domain.PaymentUPI, "ZAKAT")
	suite.Require().NoError(err)
	suite.Equal("acc-zbank", account.AccountID)

	_, err = suite.service.ResolveCounterAccount(suite.ctx, domain.PaymentMode("BARTER"), "ZAKAT")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ChartServiceTestSuite) TestCategories() {
	rule, err := suite.service.ResolveCategory(domain.DirectionIncome, "Zakat")
	suite.Require().NoError(err)
	suite.Equal("ZAKAT", rule.FundID)

	_, err = suite.service.ResolveCategory(domain.DirectionExpense, "Zakat")
	suite.ErrorIs(err, apperrors.ErrValidation, "categories are per direction")

	expense := suite.service.ListCategories(domain.DirectionExpense)
	suite.Require().Len(expense, 2)
	suite.Equal("Utilities", expense[0].Name)
	suite.Equal("Zakat Disbursement", expense[1].Name)
	suite.Len(suite.service.ListCategories(""), 5)
}

func (suite *ChartServiceTestSuite) TestListAccountsFiltersInactive() {
	suite.mockRepo.On("ListAccounts", suite.ctx).Return([]domain.Account{
		{AccountID: "a", IsActive: true},
		{AccountID: "b", IsActive: false},
	}, nil).Twice()

	active, err := suite.service.ListAccounts(suite.ctx, false)
	suite.Require().NoError(err)
	suite.Len(active, 1)

	all, err := suite.service.ListAccounts(suite.ctx, true)
	suite.Require().NoError(err)
	suite.Len(all, 2)
}
