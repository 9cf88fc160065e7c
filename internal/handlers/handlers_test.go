package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/adapters/database/boltdb"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/core/services"
	"github.com/SscSPs/remittance_ledger/internal/dto"
	"github.com/SscSPs/remittance_ledger/internal/handlers"
	"github.com/SscSPs/remittance_ledger/internal/middleware"
	"github.com/SscSPs/remittance_ledger/internal/reporting/export"
	"github.com/SscSPs/remittance_ledger/internal/utils/accounting"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	acmeID     = "1003113"
)

func testChart() []domain.Account {
	return []domain.Account{
		{AccountID: "1", Name: "Assets", AccountType: domain.Assets, IsGroup: true},
		{AccountID: "116", Name: "Bank USD", AccountType: domain.Assets, ParentAccountID: "1"},
		{AccountID: "2", Name: "Liabilities", AccountType: domain.Liabilities, IsGroup: true},
		{AccountID: domain.ClientAccountsGroupID, Name: "Client Accounts", AccountType: domain.Liabilities, IsGroup: true, ParentAccountID: "2"},
		{AccountID: domain.SuspenseGroupID, Name: "Unmatched Funds", AccountType: domain.Liabilities, IsGroup: true, ParentAccountID: "2"},
		{AccountID: domain.UnmatchedCashAccountID, Name: "Unmatched Cash", AccountType: domain.Liabilities, ParentAccountID: domain.SuspenseGroupID},
		{AccountID: domain.UnmatchedUSDTAccountID, Name: "Unmatched USDT", AccountType: domain.Liabilities, ParentAccountID: domain.SuspenseGroupID},
		{AccountID: "3", Name: "Equity", AccountType: domain.Equity, IsGroup: true},
	}
}

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	store  *boltdb.Store
	token  string
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	store, err := boltdb.Open(filepath.Join(suite.T().TempDir(), "ledger.db"))
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { _ = store.Close() })
	suite.store = store

	container := services.NewServiceContainer(store)
	ctx := context.Background()
	suite.Require().NoError(container.Account.ImportChart(ctx, testChart(), "admin"))
	_, err = container.Intake.RegisterClient(ctx, acmeID, "Acme Trading", "admin")
	suite.Require().NoError(err)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testSecret))
	handlers.RegisterLedgerRoutes(v1, container)

	suite.token, err = middleware.IssueToken(testSecret, "ledger-test", "clerk-1", time.Hour)
	suite.Require().NoError(err)
}

func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}

func (suite *LedgerHandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) balance(accountID string) decimal.Decimal {
	w := suite.do(http.MethodGet, "/accounts/"+accountID+"/balance", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Balance
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestSubmitAndReassign() {
	w := suite.do(http.MethodPost, "/records/cash", map[string]any{
		"type": "inflow", "amount_usd": "26.04", "accountId": "116",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var submitted dto.SubmitRecordResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &submitted))
	suite.Equal("1", submitted.Record.RecordID)
	suite.Equal("116", submitted.Entry.DebitAccount)
	suite.Equal(domain.UnmatchedCashAccountID, submitted.Entry.CreditAccount)
	suite.True(decimal.RequireFromString("26.04").Equal(submitted.Entry.AmountUSD))

	w = suite.do(http.MethodPost, "/records/cash/1/reassign", dto.ReassignRequest{ClientID: acmeID})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var transfer dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &transfer))
	suite.Equal(domain.UnmatchedCashAccountID, transfer.DebitAccount)
	suite.Equal(domain.ClientAccountID(acmeID), transfer.CreditAccount)

	w = suite.do(http.MethodPost, "/records/cash/1/reassign", dto.ReassignRequest{ClientID: acmeID})
	suite.Equal(http.StatusConflict, w.Code)

	suite.True(decimal.RequireFromString("26.04").Equal(suite.balance(domain.ClientAccountID(acmeID))))
	suite.True(suite.balance(domain.UnmatchedCashAccountID).IsZero())

	w = suite.do(http.MethodGet, "/records/cash/1/entries", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var entries []dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &entries))
	suite.Len(entries, 2)
}

func (suite *LedgerHandlerTestSuite) TestPostingErrorsMapToStatus() {
	tests := []struct {
		name string
		body dto.PostRecordRequest
		want int
	}{
		{
			name: "outflow without client",
			body: dto.PostRecordRequest{RecordID: "9", Kind: "cash", FlowType: "outflow", AmountUSD: decimal.NewFromInt(5), AccountID: "116"},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown account",
			body: dto.PostRecordRequest{RecordID: "9", Kind: "cash", FlowType: "inflow", AmountUSD: decimal.NewFromInt(5), AccountID: "999"},
			want: http.StatusNotFound,
		},
		{
			name: "group account",
			body: dto.PostRecordRequest{RecordID: "9", Kind: "cash", FlowType: "inflow", AmountUSD: decimal.NewFromInt(5), AccountID: "1"},
			want: http.StatusBadRequest,
		},
		{
			name: "zero amount",
			body: dto.PostRecordRequest{RecordID: "9", Kind: "cash", FlowType: "inflow", AccountID: "116"},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown kind rejected by binding",
			body: dto.PostRecordRequest{RecordID: "9", Kind: "gold", FlowType: "inflow", AmountUSD: decimal.NewFromInt(5), AccountID: "116"},
			want: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/postings", tt.body)
			suite.Equal(tt.want, w.Code, w.Body.String())
		})
	}
	suite.True(suite.balance("116").IsZero(), "rejected postings write nothing")
}

func (suite *LedgerHandlerTestSuite) TestPostingTwiceConflicts() {
	body := dto.PostRecordRequest{RecordID: "77", Kind: "cash", FlowType: "inflow", AmountUSD: decimal.NewFromInt(10), AccountID: "116"}

	w := suite.do(http.MethodPost, "/postings", body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/postings", body)
	suite.Equal(http.StatusConflict, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), "already posted")

	suite.True(decimal.NewFromInt(10).Equal(suite.balance(domain.UnmatchedCashAccountID)))

	w = suite.do(http.MethodPost, "/records/cash/77/reassign", dto.ReassignRequest{ClientID: acmeID})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.True(suite.balance(domain.UnmatchedCashAccountID).IsZero())
}

func (suite *LedgerHandlerTestSuite) TestMissingOriginalEntryIsReported() {
	suite.Require().NoError(suite.store.Records().SaveRecord(context.Background(), domain.Record{
		RecordID: "9", Kind: domain.CashRecord, FlowType: domain.Inflow,
		AmountUSD: decimal.NewFromInt(10), AccountID: "116",
	}))

	w := suite.do(http.MethodPost, "/records/cash/9/reassign", dto.ReassignRequest{ClientID: acmeID})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "original entry not found")
	suite.Contains(w.Body.String(), "cash record 9")
}

func (suite *LedgerHandlerTestSuite) TestClientOutflowAndStatement() {
	clientID := acmeID
	w := suite.do(http.MethodPost, "/postings", dto.PostRecordRequest{
		RecordID: "7", Kind: "cash", FlowType: "inflow", AmountUSD: decimal.NewFromInt(100), AccountID: "116", ClientID: &clientID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = suite.do(http.MethodPost, "/postings", dto.PostRecordRequest{
		RecordID: "8", Kind: "cash", FlowType: "outflow", AmountUSD: decimal.NewFromInt(40), AccountID: "116", ClientID: &clientID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/clients/"+acmeID+"/statement", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var statement domain.ClientStatement
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &statement))
	suite.Require().Len(statement.Lines, 2)
	suite.True(decimal.NewFromInt(100).Equal(statement.Lines[0].Balance))
	suite.True(decimal.NewFromInt(60).Equal(statement.ClosingBalance))

	w = suite.do(http.MethodGet, "/clients/nobody/statement", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestRegisterClient() {
	w := suite.do(http.MethodPost, "/clients", dto.RegisterClientRequest{Name: "Bolt Exchange"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var client dto.ClientResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &client))
	suite.NotEmpty(client.ClientID)
	suite.Equal(domain.ClientAccountID(client.ClientID), client.AccountID)

	w = suite.do(http.MethodGet, "/accounts/"+client.AccountID, nil)
	suite.Equal(http.StatusOK, w.Code, "client account is postable")

	w = suite.do(http.MethodPost, "/clients", dto.RegisterClientRequest{ClientID: acmeID, Name: "Again"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/clients", map[string]string{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestReports() {
	w := suite.do(http.MethodPost, "/records/cash", map[string]any{"type": "inflow", "amountUsd": 50, "accountId": "116"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/reports/balance-sheet?periodStart=not-a-date", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var sheet dto.BalanceSheetResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &sheet))
	suite.True(decimal.NewFromInt(50).Equal(sheet.Summary.TotalAssets), "bad periodStart includes all history")
	suite.True(decimal.NewFromInt(50).Equal(sheet.Summary.TotalLiabilities))

	w = suite.do(http.MethodGet, "/reports/trial-balance", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var tb dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tb))
	suite.True(tb.Totals.Debit.Equal(tb.Totals.Credit))

	w = suite.do(http.MethodGet, "/reports/balance-sheet?format=xlsx", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(export.ContentType, w.Header().Get("Content-Type"))
	suite.NotZero(w.Body.Len())

	w = suite.do(http.MethodGet, "/reports/trial-balance?asOf=yesterday-ish", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestAccountEntriesPaging() {
	for i := 0; i < 3; i++ {
		w := suite.do(http.MethodPost, "/records/cash", map[string]any{"type": "inflow", "amountUsd": "1", "accountId": "116"})
		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	w := suite.do(http.MethodGet, "/accounts/116/entries?limit=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page.Entries, 2)
	suite.Require().NotNil(page.NextToken)

	w = suite.do(http.MethodGet, "/accounts/116/entries?limit=2&nextToken="+*page.NextToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	page = dto.ListEntriesResponse{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page.Entries, 1)
	suite.Nil(page.NextToken)

	w = suite.do(http.MethodGet, "/accounts/116/entries?nextToken=%25%25", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.do(http.MethodGet, "/accounts/116/entries?limit=0", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestRequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) AccountBalance(ctx context.Context, accountID string, opts accounting.BalanceOptions) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockReportingService) TrialBalance(ctx context.Context, opts accounting.BalanceOptions) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) ProfitAndLoss(ctx context.Context, opts accounting.BalanceOptions) (*domain.PAndLReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PAndLReport), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, opts accounting.BalanceOptions) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

func (m *MockReportingService) ClientStatement(ctx context.Context, clientID string, opts accounting.BalanceOptions) (*domain.ClientStatement, error) {
	args := m.Called(ctx, clientID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientStatement), args.Error(1)
}

func TestServerErrorsAreNotLeaked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reporting := new(MockReportingService)
	reporting.On("TrialBalance", mock.Anything, mock.AnythingOfType("accounting.BalanceOptions")).
		Return(nil, errors.New("pq: connection reset by peer")).Once()

	router := gin.New()
	v1 := router.Group("/api/v1", middleware.AuthMiddleware(testSecret))
	handlers.RegisterLedgerRoutes(v1, &portssvc.ServiceContainer{Reporting: reporting})

	token, err := middleware.IssueToken(testSecret, "ledger-test", "clerk-1", time.Hour)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reports/trial-balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset", "driver errors stay in the log")
	reporting.AssertExpectations(t)
}
