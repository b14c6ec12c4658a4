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

// MockPeriodLockRepository is a mock type for the PeriodLockRepository interface
type MockPeriodLockRepository struct {
	mock.Mock
}

func (m *MockPeriodLockRepository) SavePeriodLock(ctx context.Context, lock domain.PeriodLock, audit domain.AuditEntry) error {
	args := m.Called(ctx, lock, audit)
	return args.Error(0)
}

func (m *MockPeriodLockRepository) DeletePeriodLock(ctx context.Context, year, month int, audit domain.AuditEntry) error {
	args := m.Called(ctx, year, month, audit)
	return args.Error(0)
}

func (m *MockPeriodLockRepository) FindPeriodLock(ctx context.Context, year, month int) (*domain.PeriodLock, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodLock), args.Error(1)
}

func (m *MockPeriodLockRepository) ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodLock), args.Error(1)
}

type PeriodServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	mockRepo *MockPeriodLockRepository
	service  portssvc.PeriodSvcFacade
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.now = time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
	suite.mockRepo = new(MockPeriodLockRepository)
	suite.service = services.NewPeriodService(suite.mockRepo, services.WithPeriodClock(services.FixedClock(suite.now)))
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}

func (suite *PeriodServiceTestSuite) TestLockPeriod_Success() {
	req := dto.LockPeriodRequest{Year: 2024, Month: 3, Reason: "Committee signed off"}
	suite.mockRepo.On("SavePeriodLock", suite.ctx,
		domain.PeriodLock{Year: 2024, Month: 3, Reason: "Committee signed off", LockedBy: treasurer.ID, LockedAt: suite.now},
		mock.MatchedBy(func(e domain.AuditEntry) bool {
			return e.Action == domain.ActionLock && e.EntityID == "2024-03" && e.Remarks == req.Reason
		}),
	).Return(nil).Once()

	lock, err := suite.service.LockPeriod(suite.ctx, req, treasurer)

	suite.Require().NoError(err)
	suite.Equal("2024-03", lock.Key())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestLockPeriod_Rejections() {
	_, err := suite.service.LockPeriod(suite.ctx, dto.LockPeriodRequest{Year: 2024, Month: 13}, treasurer)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.LockPeriod(suite.ctx, dto.LockPeriodRequest{Year: 2024, Month: 3}, approver)
	suite.ErrorIs(err, apperrors.ErrInsufficientRole)

	suite.mockRepo.On("SavePeriodLock", suite.ctx, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	_, err = suite.service.LockPeriod(suite.ctx, dto.LockPeriodRequest{Year: 2024, Month: 3}, treasurer)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestUnlockPeriod() {
	suite.mockRepo.On("DeletePeriodLock", suite.ctx, 2024, 3,
		mock.MatchedBy(func(e domain.AuditEntry) bool { return e.Action == domain.ActionUnlock })).Return(nil).Once()
	suite.NoError(suite.service.UnlockPeriod(suite.ctx, 2024, 3, treasurer))

	suite.mockRepo.On("DeletePeriodLock", suite.ctx, 2024, 2, mock.Anything).
		Return(apperrors.NewNotFoundError("period lock", "2024-02")).Once()
	suite.ErrorIs(suite.service.UnlockPeriod(suite.ctx, 2024, 2, treasurer), apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestEnsureOpen() {
	march := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)
	suite.mockRepo.On("FindPeriodLock", suite.ctx, 2024, 3).Return(&domain.PeriodLock{Year: 2024, Month: 3}, nil).Once()
	err := suite.service.EnsureOpen(suite.ctx, march)
	var locked *apperrors.PeriodLockedError
	suite.Require().ErrorAs(err, &locked)
	suite.Equal(3, locked.Month)

	suite.mockRepo.On("FindPeriodLock", suite.ctx, 2024, 4).Return(nil, apperrors.NewNotFoundError("period lock", "2024-04")).Once()
	suite.NoError(suite.service.EnsureOpen(suite.ctx, suite.now))

	suite.mockRepo.On("FindPeriodLock", suite.ctx, 2024, 5).Return(nil, assert.AnError).Once()
	err = suite.service.EnsureOpen(suite.ctx, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	suite.ErrorIs(err, assert.AnError)
	suite.NotErrorIs(err, apperrors.ErrPeriodLocked)
	suite.mockRepo.AssertExpectations(suite.T())
}
