package commands_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SscSPs/remittance_ledger/internal/adapters/database/boltdb"
	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/commands"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/SscSPs/remittance_ledger/internal/core/services"
	"github.com/SscSPs/remittance_ledger/internal/middleware"
)

const chartYAML = `accounts:
  - {id: "1", name: Assets, type: assets, group: true}
  - {id: "116", name: Bank USD, type: asset, parent: "1"}
  - {id: "2", name: Liabilities, type: liabilities, group: true}
  - {id: "6000", name: Client Accounts, type: liabilities, group: true, parent: "2"}
  - {id: "7000", name: Unmatched Funds, type: liabilities, group: true, parent: "2"}
  - {id: "7001", name: Unmatched Cash, type: liabilities, parent: "7000"}
  - {id: "7002", name: Unmatched USDT, type: liabilities, parent: "7000"}
`

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"REDIS_ADDRESS", "KAFKA_BROKERS", "STORE_DRIVER", "IS_PRODUCTION"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "cli-test-secret")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeChart(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateChart(t *testing.T) {
	isolateEnv(t)

	out, err := run(t, "validate-chart", "--file", writeChart(t, chartYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "7 accounts, chart is valid")

	broken := chartYAML + `  - {id: "117", name: Orphan, type: assets, parent: "404"}` + "\n"
	_, err = run(t, "validate-chart", "--file", writeChart(t, broken))
	assert.ErrorIs(t, err, apperrors.ErrInvalidChart)
}

func TestImportReassignAndExport(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	_, err := run(t, "--bolt", dbPath, "import-chart", "--file", writeChart(t, chartYAML))
	require.NoError(t, err)

	// seed an unmatched inflow and a client between CLI invocations
	store, err := boltdb.Open(dbPath)
	require.NoError(t, err)
	ledger := services.NewServiceContainer(store)
	ctx := context.Background()
	_, err = ledger.Intake.RegisterClient(ctx, "1003113", "Acme Trading", "seed")
	require.NoError(t, err)
	_, err = ledger.Posting.PostInflowOrOutflow(ctx, domain.Record{
		RecordID: "12", Kind: domain.CashRecord, FlowType: domain.Inflow,
		Amount: decimal.RequireFromString("26.04"), AmountUSD: decimal.RequireFromString("26.04"), AccountID: "116",
	}, "seed")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	out, err := run(t, "--bolt", dbPath, "balance", "7001")
	require.NoError(t, err)
	assert.Contains(t, out, "balance: 26.04")

	out, err = run(t, "--bolt", dbPath, "--user", "ops-1", "reassign", "cash", "12", "1003113")
	require.NoError(t, err)
	assert.Contains(t, out, "7001 -> 60001003113")

	_, err = run(t, "--bolt", dbPath, "reassign", "cash", "12", "1003113")
	assert.ErrorIs(t, err, apperrors.ErrRecordAlreadyAssigned)

	out, err = run(t, "--bolt", dbPath, "balance", "6000")
	require.NoError(t, err)
	assert.Contains(t, out, "group")
	assert.Contains(t, out, "balance: 26.04")

	xlsx := filepath.Join(t.TempDir(), "bs.xlsx")
	_, err = run(t, "--bolt", dbPath, "export", "balance-sheet", "--out", xlsx)
	require.NoError(t, err)
	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Balance Sheet")
}

func TestBalanceRejectsBadAsOf(t *testing.T) {
	isolateEnv(t)
	_, err := run(t, "--bolt", filepath.Join(t.TempDir(), "ledger.db"), "balance", "116", "--as-of", "soon")
	assert.ErrorContains(t, err, "invalid asOf")
}

func TestTokenIsAcceptedByAuthMiddleware(t *testing.T) {
	isolateEnv(t)
	out, err := run(t, "--user", "ops-7", "token", "--ttl", "5m")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", middleware.AuthMiddleware("cli-test-secret"), func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		c.String(http.StatusOK, userID)
	})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ops-7", w.Body.String())
}
