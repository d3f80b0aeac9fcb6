package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/transfer_reconciler/internal/apperrors"
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/transfer_reconciler/internal/core/ports/services"
	"github.com/SscSPs/transfer_reconciler/internal/core/transfers"
	"github.com/SscSPs/transfer_reconciler/internal/dto"
	"github.com/SscSPs/transfer_reconciler/internal/handlers"
	"github.com/SscSPs/transfer_reconciler/internal/platform/config"
	"github.com/SscSPs/transfer_reconciler/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) RunFullReconciliation(ctx context.Context) (*domain.ReconciliationSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSummary), args.Error(1)
}

func (m *MockReconciliationService) DetectTransfers(ctx context.Context) (*transfers.Result, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfers.Result), args.Error(1)
}

func (m *MockReconciliationService) OverrideInclusion(ctx context.Context, transactionID string, include bool) ([]domain.Transaction, error) {
	args := m.Called(ctx, transactionID, include)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

func (m *MockTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) ImportTransactions(ctx context.Context, reqs []dto.CreateTransactionRequest, importedBy string) ([]domain.Transaction, error) {
	args := m.Called(ctx, reqs, importedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock TotalsService ---
type MockTotalsService struct {
	mock.Mock
}

var _ portssvc.TotalsSvc = (*MockTotalsService)(nil)

func (m *MockTotalsService) Totals(ctx context.Context, view domain.ViewContext, evaluator domain.Evaluator) (*domain.Totals, error) {
	args := m.Called(ctx, view, evaluator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Totals), args.Error(1)
}

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router         *gin.Engine
	cfg            *config.Config
	reconciliation *MockReconciliationService
	transactions   *MockTransactionService
	totals         *MockTotalsService
	jwtSecret      string
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.jwtSecret = "test-secret-key-that-is-long-enough"
	s.cfg = &config.Config{
		JWTSecret:          s.jwtSecret,
		ReconcileRateLimit: "2-M",
		IsProduction:       true,
	}
	s.reconciliation = new(MockReconciliationService)
	s.transactions = new(MockTransactionService)
	s.totals = new(MockTotalsService)
	s.router = s.newRouter(s.cfg)
}

func (s *HandlersTestSuite) newRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	err := handlers.RegisterRoutes(r, cfg, &portssvc.ServiceContainer{
		Reconciliation: s.reconciliation,
		Totals:         s.totals,
		Transactions:   s.transactions,
	}, metrics.New())
	s.Require().NoError(err)
	return r
}

// generateTestToken creates a signed JWT for userID.
func (s *HandlersTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "reconciler-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	s.Require().NoError(err)
	return signed
}

func (s *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	return s.doOn(s.router, method, path, body, "Bearer "+s.generateTestToken("user-1"))
}

func (s *HandlersTestSuite) doOn(r *gin.Engine, method, path string, body any, auth string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func transferLegs() []domain.Transaction {
	decided := true
	info := &domain.TransferInfo{IsTransfer: true, TransferID: "tr-1", TransferType: domain.SelfTransfer, UserOverride: &decided}
	return []domain.Transaction{
		{TransactionID: "a1", Amount: decimal.NewFromInt(100), Type: domain.Expense, UserID: "u1", TransferInfo: info},
		{TransactionID: "a2", Amount: decimal.NewFromInt(100), Type: domain.Income, UserID: "u1", TransferInfo: info},
	}
}

func (s *HandlersTestSuite) TestHealthAndMetricsArePublic() {
	w := s.doOn(s.router, http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())

	w = s.doOn(s.router, http.MethodGet, "/metrics", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "go_goroutines")
}

func (s *HandlersTestSuite) TestAPIRequiresToken() {
	w := s.doOn(s.router, http.MethodPost, "/api/v1/transfers/reconcile", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.doOn(s.router, http.MethodPost, "/api/v1/transfers/reconcile", nil, "Bearer garbage")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.reconciliation.AssertNotCalled(s.T(), "RunFullReconciliation", mock.Anything)
}

func (s *HandlersTestSuite) TestReconcile() {
	summary := &domain.ReconciliationSummary{TotalTransactions: 4, NewTransfersDetected: 2, SelfTransferCount: 1, UserTransferCount: 1, TransferDetails: []domain.TransferDetail{}}
	s.reconciliation.On("RunFullReconciliation", mock.Anything).Return(summary, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transfers/reconcile", nil)

	s.Equal(http.StatusOK, w.Code)
	var got domain.ReconciliationSummary
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(2, got.NewTransfersDetected)
	s.Equal("2", w.Header().Get("X-RateLimit-Limit"))
	s.reconciliation.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestReconcile_RateLimited() {
	s.reconciliation.On("RunFullReconciliation", mock.Anything).Return(&domain.ReconciliationSummary{}, nil).Twice()

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/transfers/reconcile", nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/transfers/reconcile", nil).Code)
	s.Equal(http.StatusTooManyRequests, s.do(http.MethodPost, "/api/v1/transfers/reconcile", nil).Code)
	s.reconciliation.AssertNumberOfCalls(s.T(), "RunFullReconciliation", 2)
}

func (s *HandlersTestSuite) TestReconcile_Failure() {
	s.reconciliation.On("RunFullReconciliation", mock.Anything).Return(nil, context.DeadlineExceeded).Once()

	w := s.do(http.MethodPost, "/api/v1/transfers/reconcile", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.JSONEq(`{"error":"Reconciliation failed"}`, w.Body.String())
}

func (s *HandlersTestSuite) TestDetect() {
	legs := transferLegs()
	res := &transfers.Result{
		Transfers: []domain.TransferPair{{Credit: legs[1], Debit: legs[0], TransferID: "tr-1", TransferType: domain.SelfTransfer, Confidence: 0.95}},
		Skipped:   1,
	}
	s.reconciliation.On("DetectTransfers", mock.Anything).Return(res, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transfers/detect", nil)

	s.Equal(http.StatusOK, w.Code)
	var got dto.DetectTransfersResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Require().Len(got.Transfers, 1)
	s.Equal("a2", got.Transfers[0].Credit.TransactionID)
	s.Equal(1, got.Skipped)
}

func (s *HandlersTestSuite) TestOverrideInclusion() {
	s.reconciliation.On("OverrideInclusion", mock.Anything, "a1", true).Return(transferLegs(), nil).Once()

	w := s.do(http.MethodPut, "/api/v1/transactions/a1/inclusion", map[string]any{"includeInCalculations": true})

	s.Equal(http.StatusOK, w.Code)
	var got []dto.TransactionResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Require().Len(got, 2)
	s.True(got[0].Included)
	s.Equal("override_included", string(got[1].InclusionReason))
}

func (s *HandlersTestSuite) TestOverrideInclusion_Errors() {
	s.reconciliation.On("OverrideInclusion", mock.Anything, "missing", false).
		Return(nil, apperrors.NewNotFoundError("transaction missing not found")).Once()
	s.reconciliation.On("OverrideInclusion", mock.Anything, "groceries", false).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "transaction groceries cannot be overridden", apperrors.ErrNotTransfer)).Once()
	s.reconciliation.On("OverrideInclusion", mock.Anything, "lonely", false).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "transfer gone is inconsistent", apperrors.ErrOrphanedTransfer)).Once()

	body := map[string]any{"includeInCalculations": false}
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, "/api/v1/transactions/missing/inclusion", body).Code)
	s.Equal(http.StatusConflict, s.do(http.MethodPut, "/api/v1/transactions/groceries/inclusion", body).Code)

	w := s.do(http.MethodPut, "/api/v1/transactions/lonely/inclusion", body)
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(w.Body.String(), "transfer partner leg not found")

	w = s.do(http.MethodPut, "/api/v1/transactions/a1/inclusion", map[string]any{})
	s.Equal(http.StatusBadRequest, w.Code)
	s.reconciliation.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestListTransactions() {
	user := "u1"
	next := "token"
	s.transactions.On("ListTransactions", mock.Anything, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.UserID != nil && *p.UserID == user && p.Limit == 10 && p.Included != nil && *p.Included && p.NextToken != nil && *p.NextToken == next
	})).Return(&dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{{TransactionID: "b1", Included: true}}}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions?userID=u1&included=true&limit=10&nextToken=token", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"id":"b1"`)
	s.NotContains(w.Body.String(), "nextToken")
	s.transactions.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestListTransactions_DefaultsAndValidation() {
	s.transactions.On("ListTransactions", mock.Anything, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.Limit == 50 && p.UserID == nil
	})).Return(&dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}}, nil).Once()
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/transactions", nil).Code)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/transactions?limit=501", nil).Code)

	s.transactions.On("ListTransactions", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("invalid nextToken", nil)).Once()
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/transactions?nextToken=bad", nil).Code)
}

func (s *HandlersTestSuite) TestImportTransactions() {
	s.transactions.On("ImportTransactions", mock.Anything, mock.MatchedBy(func(reqs []dto.CreateTransactionRequest) bool {
		return len(reqs) == 1 && reqs[0].UserID == "u1" && reqs[0].Amount.Equal(decimal.RequireFromString("12.50"))
	}), "user-1").Return([]domain.Transaction{{TransactionID: "generated-1"}}, nil).Once()

	body := `{"transactions":[{"date":"2024-01-05T00:00:00Z","amount":"12.50","type":"expense","user":"u1","sourceId":"bank"}]}`
	w := s.do(http.MethodPost, "/api/v1/transactions", body)

	s.Equal(http.StatusCreated, w.Code)
	s.JSONEq(`{"imported":1,"transactionIDs":["generated-1"]}`, w.Body.String())
	s.transactions.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestImportTransactions_Rejected() {
	for name, body := range map[string]string{
		"empty batch":  `{"transactions":[]}`,
		"missing user": `{"transactions":[{"date":"2024-01-05T00:00:00Z","amount":1,"type":"expense"}]}`,
		"bad type":     `{"transactions":[{"date":"2024-01-05T00:00:00Z","amount":1,"type":"refund","user":"u1"}]}`,
		"not json":     `transactions`,
	} {
		w := s.do(http.MethodPost, "/api/v1/transactions", body)
		s.Equal(http.StatusBadRequest, w.Code, name)
	}
	s.transactions.AssertNotCalled(s.T(), "ImportTransactions", mock.Anything, mock.Anything, mock.Anything)

	s.transactions.On("ImportTransactions", mock.Anything, mock.Anything, "user-1").
		Return(nil, apperrors.NewAppError(http.StatusConflict, "transaction a1 already exists", apperrors.ErrDuplicate)).Once()
	w := s.do(http.MethodPost, "/api/v1/transactions", `{"transactions":[{"id":"a1","date":"2024-01-05T00:00:00Z","amount":1,"type":"expense","user":"u1"}]}`)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersTestSuite) TestTotals() {
	totals := &domain.Totals{Income: decimal.NewFromInt(50), Expense: decimal.NewFromInt(35), Net: decimal.NewFromInt(15), IncludedCount: 2}
	s.totals.On("Totals", mock.Anything, domain.ForUser("u2"), domain.EvaluatorSQL).Return(totals, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/totals?userID=u2&evaluator=sql", nil)

	s.Equal(http.StatusOK, w.Code)
	var got dto.TotalsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.True(got.Net.Equal(decimal.NewFromInt(15)))
	s.Equal(domain.EvaluatorSQL, got.Evaluator)
	s.Require().NotNil(got.SelectedUserID)
	s.Equal("u2", *got.SelectedUserID)
}

func (s *HandlersTestSuite) TestTotals_DefaultEvaluatorAndValidation() {
	s.totals.On("Totals", mock.Anything, domain.AllUsers(), domain.EvaluatorMemory).
		Return(&domain.Totals{}, nil).Once()
	w := s.do(http.MethodGet, "/api/v1/reports/totals", nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(strings.Contains(w.Body.String(), `"selectedUserId":null`))

	w = s.do(http.MethodGet, "/api/v1/reports/totals?evaluator=spreadsheet", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.totals.AssertNumberOfCalls(s.T(), "Totals", 1)
}

func (s *HandlersTestSuite) TestAuthDisabledWithoutSecret() {
	cfg := *s.cfg
	cfg.JWTSecret = ""
	r := s.newRouter(&cfg)
	s.transactions.On("ImportTransactions", mock.Anything, mock.Anything, "anonymous").
		Return([]domain.Transaction{{TransactionID: "x"}}, nil).Once()

	w := s.doOn(r, http.MethodPost, "/api/v1/transactions", `{"transactions":[{"date":"2024-01-05T00:00:00Z","amount":1,"type":"income","user":"u1"}]}`, "")

	s.Equal(http.StatusCreated, w.Code)
	s.transactions.AssertExpectations(s.T())
}
