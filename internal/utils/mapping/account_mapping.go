package mapping

import (
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/SscSPs/remittance_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		IsGroup:         d.IsGroup,
		ParentAccountID: nullable(d.ParentAccountID),
		CurrencyCode:    nullable(d.CurrencyCode),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		IsGroup:         m.IsGroup,
		ParentAccountID: deref(m.ParentAccountID),
		CurrencyCode:    deref(m.CurrencyCode),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
