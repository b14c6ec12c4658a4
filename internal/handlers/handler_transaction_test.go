package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	verifierActor = domain.NewActor("u-verifier", domain.CapVerifier)
	approverActor = domain.NewActor("u-approver", domain.CapApprover)
)

type TransactionHandlerTestSuite struct {
	suite.Suite
	api *apiHarness
}

func (s *TransactionHandlerTestSuite) SetupTest() {
	s.api = newAPIHarness()
}

func (s *TransactionHandlerTestSuite) TearDownTest() {
	s.api.assertExpectations(s.T())
}

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	s.api.transaction.On("CreateTransaction", mock.Anything,
		mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
			return req.Category == "Zakat" && req.Amount.Equal(decimal.RequireFromString("5000.00")) && req.PaymentMode == domain.PaymentCash
		}), actorID(creatorActor.ID)).
		Return(&domain.Transaction{TransactionID: "t-1", ReferenceNumber: "RCP202403150001", State: domain.StateDraft, FundID: "ZAKAT"}, nil).Once()

	w := s.api.do(s.T(), creatorActor, http.MethodPost, "/api/v1/transactions",
		`{"direction":"INCOME","category":"Zakat","amount":"5000.00","paymentMode":"CASH","description":"Jumuah collection"}`)

	s.Require().Equal(http.StatusCreated, w.Code)
	var resp domain.Transaction
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("RCP202403150001", resp.ReferenceNumber)
	s.Equal(domain.StateDraft, resp.State)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_MoneyValidation() {
	for _, amount := range []string{`"0"`, `"-5"`, `"10.005"`, `"10000000000000"`, `null`} {
		w := s.api.do(s.T(), creatorActor, http.MethodPost, "/api/v1/transactions",
			`{"direction":"INCOME","category":"Zakat","amount":`+amount+`,"description":"x"}`)
		s.Equal(http.StatusBadRequest, w.Code, "amount %s", amount)
	}
	w := s.api.do(s.T(), creatorActor, http.MethodPost, "/api/v1/transactions",
		`{"direction":"TRANSFER","category":"Zakat","amount":"1","description":"x"}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TransactionHandlerTestSuite) TestCreateTransaction_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"locked period", &apperrors.PeriodLockedError{Year: 2024, Month: 3}, http.StatusLocked},
		{"fund mismatch", &apperrors.FundMismatchError{}, http.StatusUnprocessableEntity},
		{"unknown category", apperrors.ErrValidation, http.StatusBadRequest},
		{"unknown account", apperrors.NewNotFoundError("account", "acc-x"), http.StatusNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.api.transaction.On("CreateTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			w := s.api.do(s.T(), creatorActor, http.MethodPost, "/api/v1/transactions",
				`{"direction":"EXPENSE","category":"Utilities","amount":"120.50","paymentMode":"BANK","description":"Electricity"}`)
			s.Equal(tt.status, w.Code)
		})
	}
}

func (s *TransactionHandlerTestSuite) TestWorkflowSteps() {
	s.api.transaction.On("Verify", mock.Anything, "t-1", actorID(verifierActor.ID)).
		Return(&domain.Transaction{TransactionID: "t-1", State: domain.StateVerified}, nil).Once()
	s.api.transaction.On("Approve", mock.Anything, "t-1", actorID(approverActor.ID)).
		Return(&domain.Transaction{TransactionID: "t-1", State: domain.StateApproved}, nil).Once()
	s.api.transaction.On("Post", mock.Anything, "t-1", actorID(approverActor.ID)).
		Return(&domain.Transaction{TransactionID: "t-1", State: domain.StatePosted}, nil).Once()

	s.Equal(http.StatusOK, s.api.do(s.T(), verifierActor, http.MethodPost, "/api/v1/transactions/t-1/verify", nil).Code)
	s.Equal(http.StatusOK, s.api.do(s.T(), approverActor, http.MethodPost, "/api/v1/transactions/t-1/approve", nil).Code)
	w := s.api.do(s.T(), approverActor, http.MethodPost, "/api/v1/transactions/t-1/post", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"state":"POSTED"`)
}

func (s *TransactionHandlerTestSuite) TestWorkflowErrors() {
	s.api.transaction.On("Verify", mock.Anything, "t-1", mock.Anything).
		Return(nil, &apperrors.SelfVerificationError{TransactionID: "t-1", ActorID: "u-creator", Step: "verify"}).Once()
	s.api.transaction.On("Post", mock.Anything, "t-2", mock.Anything).
		Return(nil, &apperrors.InvalidStateTransitionError{TransactionID: "t-2", From: "DRAFT", To: "POSTED"}).Once()

	w := s.api.do(s.T(), creatorActor, http.MethodPost, "/api/v1/transactions/t-1/verify", nil)
	s.Equal(http.StatusForbidden, w.Code)
	w = s.api.do(s.T(), approverActor, http.MethodPost, "/api/v1/transactions/t-2/post", nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(w.Body.String(), "cannot move from DRAFT to POSTED")
}

func (s *TransactionHandlerTestSuite) TestReverse() {
	w := s.api.do(s.T(), approverActor, http.MethodPost, "/api/v1/transactions/t-1/reverse", `{}`)
	s.Equal(http.StatusBadRequest, w.Code, "reason is required")

	s.api.transaction.On("Reverse", mock.Anything, "t-1", "data entry error", actorID(approverActor.ID)).
		Return(&domain.Transaction{TransactionID: "t-1", State: domain.StateReversed}, nil).Once()
	w = s.api.do(s.T(), approverActor, http.MethodPost, "/api/v1/transactions/t-1/reverse", dto.ReverseTransactionRequest{Reason: "data entry error"})
	s.Equal(http.StatusOK, w.Code)

	s.api.transaction.On("Reverse", mock.Anything, "t-1", "again", mock.Anything).
		Return(nil, &apperrors.AlreadyReversedError{TransactionID: "t-1"}).Once()
	w = s.api.do(s.T(), approverActor, http.MethodPost, "/api/v1/transactions/t-1/reverse", dto.ReverseTransactionRequest{Reason: "again"})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *TransactionHandlerTestSuite) TestListTransactions() {
	next := "tok-2"
	s.api.transaction.On("ListTransactions", mock.Anything, dto.ListTransactionsParams{
		Direction: domain.DirectionIncome, FundID: "ZAKAT", Limit: 10,
	}).Return(&dto.ListTransactionsResponse{Transactions: []domain.Transaction{{TransactionID: "t-1"}}, NextToken: &next}, nil).Once()

	w := s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/transactions?direction=INCOME&fundID=ZAKAT&limit=10", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"nextToken":"tok-2"`)

	w = s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/transactions?limit=1000", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TransactionHandlerTestSuite) TestEntriesAuditAndJournalEntry() {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	s.api.transaction.On("GetJournalEntries", mock.Anything, "t-1").
		Return([]domain.JournalEntry{{EntryID: "e-1", TransactionID: "t-1", Kind: domain.EntryPosting, EntryDate: date}}, nil).Once()
	s.api.transaction.On("ListAuditTrail", mock.Anything, "t-1").Return(nil, nil).Once()
	s.api.transaction.On("GetJournalEntry", mock.Anything, "e-1").
		Return(&domain.JournalEntry{EntryID: "e-1", Kind: domain.EntryPosting}, nil).Once()
	s.api.transaction.On("GetTransaction", mock.Anything, "t-9").Return(nil, apperrors.NewNotFoundError("transaction", "t-9")).Once()

	w := s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/transactions/t-1/entries", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var entries dto.JournalEntriesResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	s.Len(entries.Entries, 1)

	w = s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/transactions/t-1/audit", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"entries":[]`)

	w = s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/journal-entries/e-1", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/transactions/t-9", nil)
	s.Equal(http.StatusNotFound, w.Code)
}
