package dto

import (
	"time"

	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	IsGroup         bool               `json:"isGroup"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	CurrencyCode    string             `json:"currencyCode"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		IsGroup:         acc.IsGroup,
		ParentAccountID: acc.ParentAccountID,
		CurrencyCode:    acc.CurrencyCode,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsResponse wraps the chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID   string             `json:"accountID"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	IsGroup     bool               `json:"isGroup"`
	Raw         decimal.Decimal    `json:"raw"`
	Balance     decimal.Decimal    `json:"balance"`
	AsOf        *time.Time         `json:"asOf,omitempty"`
	PeriodStart *time.Time         `json:"periodStart,omitempty"`
}

// ToAccountBalanceResponse pairs a balance with the window it was computed over.
func ToAccountBalanceResponse(b *domain.AccountBalance, asOf, periodStart *time.Time) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:   b.AccountID,
		Name:        b.Name,
		AccountType: b.AccountType,
		IsGroup:     b.IsGroup,
		Raw:         b.Raw,
		Balance:     b.Display,
		AsOf:        asOf,
		PeriodStart: periodStart,
	}
}

// RegisterClientRequest defines the data needed to register a client.
// ClientID is minted when omitted.
type RegisterClientRequest struct {
	ClientID string `json:"clientID" binding:"omitempty,max=32,alphanum"`
	Name     string `json:"name" binding:"required,max=200"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID  string    `json:"clientID"`
	Name      string    `json:"name"`
	AccountID string    `json:"accountID"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToClientResponse converts a domain.Client to ClientResponse DTO
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:  c.ClientID,
		Name:      c.Name,
		AccountID: domain.ClientAccountID(c.ClientID),
		CreatedAt: c.CreatedAt,
	}
}
