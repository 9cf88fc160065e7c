package chart

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc := `
accounts:
  - id: "2"
    name: Liabilities
    type: liability
    group: true
  - id: "7001"
    name: Unmatched Cash
    type: Liabilities
    parent: "2"
  - id: "102"
    name: USDT Wallet
    type: ASSETS
    currency: usdt
  - id: "9"
    name: Mystery
    type: gold
`
	accounts, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, accounts, 4)

	assert.Equal(t, domain.Liabilities, accounts[0].AccountType)
	assert.True(t, accounts[0].IsGroup)
	assert.Empty(t, accounts[0].CurrencyCode, "groups carry no currency")

	assert.Equal(t, "2", accounts[1].ParentAccountID)
	assert.Equal(t, domain.USD, accounts[1].CurrencyCode)
	assert.Equal(t, "USDT", accounts[2].CurrencyCode)
	assert.Equal(t, domain.AccountType("gold"), accounts[3].AccountType)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("accounts:\n  - id: \"1\"\n    kind: ASSETS\n"))
	assert.ErrorContains(t, err, "parsing chart")

	_, err = Load(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")
}

func TestDefaultChartFileLoads(t *testing.T) {
	_, here, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(here), "..", "..", "configs", "chart_of_accounts.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skip("default chart not present")
	}

	accounts, err := LoadFile(path)
	require.NoError(t, err)

	byID := map[string]domain.Account{}
	for _, a := range accounts {
		byID[a.AccountID] = a
	}
	for _, id := range []string{domain.UnmatchedCashAccountID, domain.UnmatchedUSDTAccountID} {
		a, ok := byID[id]
		require.True(t, ok, "missing %s", id)
		assert.False(t, a.IsGroup)
		assert.Equal(t, domain.Liabilities, a.AccountType)
	}
	assert.True(t, byID[domain.ClientAccountsGroupID].IsGroup)
}
