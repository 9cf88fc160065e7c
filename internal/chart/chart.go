// Package chart reads a chart of accounts from YAML.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"gopkg.in/yaml.v3"
)

type file struct {
	Accounts []account `yaml:"accounts"`
}

type account struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Group    bool   `yaml:"group"`
	Parent   string `yaml:"parent"`
	Currency string `yaml:"currency"`
}

// Load parses a chart document. Account types are accepted in any case and in
// singular form; an unrecognised type is passed through so chart validation
// can name the offending account.
func Load(r io.Reader) ([]domain.Account, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("chart is empty")
		}
		return nil, fmt.Errorf("parsing chart: %w", err)
	}

	accounts := make([]domain.Account, 0, len(doc.Accounts))
	for _, a := range doc.Accounts {
		t, ok := domain.ParseAccountType(a.Type)
		if !ok {
			t = domain.AccountType(a.Type)
		}
		currency := strings.ToUpper(strings.TrimSpace(a.Currency))
		if currency == "" && !a.Group {
			currency = domain.USD
		}
		accounts = append(accounts, domain.Account{
			AccountID:       strings.TrimSpace(a.ID),
			Name:            strings.TrimSpace(a.Name),
			AccountType:     t,
			IsGroup:         a.Group,
			ParentAccountID: strings.TrimSpace(a.Parent),
			CurrencyCode:    currency,
		})
	}
	return accounts, nil
}

// LoadFile reads the chart at path.
func LoadFile(path string) ([]domain.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading chart: %w", err)
	}
	defer f.Close()
	return Load(f)
}
