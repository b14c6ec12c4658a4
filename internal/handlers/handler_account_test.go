package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/SscSPs/masjid_treasury/internal/handlers"
	"github.com/SscSPs/masjid_treasury/internal/middleware"
	"github.com/SscSPs/masjid_treasury/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var testAuth = middleware.AuthConfig{Secret: "handler-test-secret", Issuer: "treasury-test"}

// apiHarness wires the real router over mock services.
type apiHarness struct {
	router      *gin.Engine
	chart       *MockChartService
	transaction *MockTransactionService
	reporting   *MockReportingService
	period      *MockPeriodService
}

func newAPIHarness() *apiHarness {
	gin.SetMode(gin.TestMode)
	h := &apiHarness{
		router:      gin.New(),
		chart:       new(MockChartService),
		transaction: new(MockTransactionService),
		reporting:   new(MockReportingService),
		period:      new(MockPeriodService),
	}
	cfg := &config.Config{JWTSecret: testAuth.Secret, JWTIssuer: testAuth.Issuer}
	err := handlers.RegisterRoutes(h.router, cfg, &portssvc.ServiceContainer{
		Chart:       h.chart,
		Transaction: h.transaction,
		Reporting:   h.reporting,
		Period:      h.period,
	}, nil)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *apiHarness) assertExpectations(t *testing.T) {
	h.chart.AssertExpectations(t)
	h.transaction.AssertExpectations(t)
	h.reporting.AssertExpectations(t)
	h.period.AssertExpectations(t)
}

// do sends a request as actor; a zero actor sends no token.
func (h *apiHarness) do(t *testing.T, actor domain.Actor, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			if err != nil {
				t.Fatal(err)
			}
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor.ID != "" {
		token, err := middleware.IssueToken(testAuth, actor, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// actorID matches the actor argument by id.
func actorID(id string) interface{} {
	return mock.MatchedBy(func(a domain.Actor) bool { return a.ID == id })
}

var (
	treasurerActor = domain.NewActor("u-treasurer", domain.CapTreasurer)
	creatorActor   = domain.NewActor("u-creator", domain.CapCreator)
	auditorActor   = domain.NewActor("u-auditor", domain.CapAuditor)
)

type AccountHandlerTestSuite struct {
	suite.Suite
	api *apiHarness
}

func (s *AccountHandlerTestSuite) SetupTest() {
	s.api = newAPIHarness()
}

func (s *AccountHandlerTestSuite) TearDownTest() {
	s.api.assertExpectations(s.T())
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}

func (s *AccountHandlerTestSuite) TestHealthIsPublic() {
	w := s.api.do(s.T(), domain.Actor{}, http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *AccountHandlerTestSuite) TestSwaggerDocIsServed() {
	w := s.api.do(s.T(), domain.Actor{}, http.MethodGet, "/swagger/doc.json", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Masjid Treasury API")
	s.Contains(w.Body.String(), "/transactions/{transactionID}/reverse")
}

func (s *AccountHandlerTestSuite) TestAPIRequiresToken() {
	w := s.api.do(s.T(), domain.Actor{}, http.MethodGet, "/api/v1/accounts", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AccountHandlerTestSuite) TestMe() {
	w := s.api.do(s.T(), domain.NewActor("u-1", domain.CapVerifier, domain.CapAuditor), http.MethodGet, "/api/v1/me", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("u-1", resp["userID"])
	s.ElementsMatch([]interface{}{"VERIFIER", "AUDITOR"}, resp["capabilities"])
}

func (s *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1060", Name: "Petty Cash", AccountType: domain.Asset}
	created := &domain.Account{AccountID: "acc-1", Code: "1060", Name: "Petty Cash", AccountType: domain.Asset, IsActive: true}
	s.api.chart.On("CreateAccount", mock.Anything, req, actorID(treasurerActor.ID)).Return(created, nil).Once()

	w := s.api.do(s.T(), treasurerActor, http.MethodPost, "/api/v1/accounts", req)

	s.Require().Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("acc-1", resp.AccountID)
	s.Equal(domain.Debit, resp.NormalSide)
}

func (s *AccountHandlerTestSuite) TestCreateAccount_BindingErrors() {
	w := s.api.do(s.T(), treasurerActor, http.MethodPost, "/api/v1/accounts", `{"code":"1060","name":"x","accountType":"CASH"}`)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.api.do(s.T(), treasurerActor, http.MethodPost, "/api/v1/accounts", `{not json`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AccountHandlerTestSuite) TestCreateAccount_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"forbidden", &apperrors.InsufficientRoleError{ActorID: "u-creator", Action: "create account"}, http.StatusForbidden},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"ring-fenced", &apperrors.FundMismatchError{}, http.StatusUnprocessableEntity},
		{"internal", apperrors.NewAppError(500, "failed to save account", assert.AnError), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.api.chart.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			w := s.api.do(s.T(), creatorActor, http.MethodPost, "/api/v1/accounts",
				dto.CreateAccountRequest{Code: "1060", Name: "Petty Cash", AccountType: domain.Asset})
			s.Equal(tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				s.NotContains(w.Body.String(), "failed to save account", "internal details stay in the log")
			}
		})
	}
}

func (s *AccountHandlerTestSuite) TestListAccounts() {
	s.api.chart.On("ListAccounts", mock.Anything, true).
		Return([]domain.Account{{AccountID: "a", Code: "1000", AccountType: domain.Asset}}, nil).Once()

	w := s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/accounts?includeInactive=true", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var resp []dto.AccountResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp, 1)
}

func (s *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	s.api.chart.On("ResolveAccount", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("account", "missing")).Once()
	w := s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/accounts/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *AccountHandlerTestSuite) TestUpdateAndDeactivate() {
	name := "Cash Box"
	s.api.chart.On("UpdateAccount", mock.Anything, "acc-1", dto.UpdateAccountRequest{Name: &name}, actorID(treasurerActor.ID)).
		Return(&domain.Account{AccountID: "acc-1", Name: name, AccountType: domain.Asset}, nil).Once()
	w := s.api.do(s.T(), treasurerActor, http.MethodPut, "/api/v1/accounts/acc-1", map[string]string{"name": name})
	s.Equal(http.StatusOK, w.Code)

	s.api.chart.On("DeactivateAccount", mock.Anything, "acc-1", actorID(treasurerActor.ID)).Return(nil).Once()
	w = s.api.do(s.T(), treasurerActor, http.MethodPost, "/api/v1/accounts/acc-1/deactivate", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *AccountHandlerTestSuite) TestAccountLedger_ParsesRange() {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	s.api.reporting.On("AccountLedger", mock.Anything, "acc-1",
		mock.MatchedBy(func(f *time.Time) bool { return f != nil && f.Equal(from) }), to, actorID(auditorActor.ID)).
		Return(&domain.AccountLedger{From: &from, To: to}, nil).Once()

	w := s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/accounts/acc-1/ledger?from=2024-03-01&to=2024-03-31", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/accounts/acc-1/ledger?from=01-03-2024", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *AccountHandlerTestSuite) TestFundsAndCategories() {
	s.api.chart.On("ListFunds", mock.Anything).Return([]domain.Fund{{FundID: "ZAKAT", Kind: domain.FundRestricted}}, nil).Once()
	w := s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/funds", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"ZAKAT"`)

	s.api.chart.On("ResolveFund", mock.Anything, "NOPE").Return(nil, apperrors.NewNotFoundError("fund", "NOPE")).Once()
	w = s.api.do(s.T(), auditorActor, http.MethodGet, "/api/v1/funds/NOPE", nil)
	s.Equal(http.StatusNotFound, w.Code)

	req := dto.CreateFundRequest{FundID: "WAQF", Name: "Waqf Fund", Kind: domain.FundTrust}
	s.api.chart.On("CreateFund", mock.Anything, req, actorID(treasurerActor.ID)).
		Return(&domain.Fund{FundID: "WAQF", Name: "Waqf Fund", Kind: domain.FundTrust}, nil).Once()
	w = s.api.do(s.T(), treasurerActor, http.MethodPost, "/api/v1/funds", req)
	s.Equal(http.StatusCreated, w.Code)

	w = s.api.do(s.T(), treasurerActor, http.MethodPost, "/api/v1/funds", dto.CreateFundRequest{FundID: "waqf", Name: "Waqf", Kind: domain.FundTrust})
	s.Equal(http.StatusBadRequest, w.Code, "fund ids are upper case")

	s.api.chart.On("ListCategories", domain.DirectionIncome).
		Return([]domain.CategoryRule{{Direction: domain.DirectionIncome, Name: "Zakat", AccountCode: "4000", FundID: "ZAKAT"}}).Once()
	w = s.api.do(s.T(), creatorActor, http.MethodGet, "/api/v1/categories?direction=INCOME", nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(strings.Contains(w.Body.String(), `"accountCode":"4000"`))

	w = s.api.do(s.T(), creatorActor, http.MethodGet, "/api/v1/categories?direction=SIDEWAYS", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}
