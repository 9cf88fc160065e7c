package mapping

import (
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	"github.com/SscSPs/remittance_ledger/internal/models"
)

// ToModelRecord converts a domain Record to a model Record
func ToModelRecord(d domain.Record) models.Record {
	m := models.Record{
		Kind:         string(d.Kind),
		RecordID:     d.RecordID,
		FlowType:     string(d.FlowType),
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
		AmountUSD:    d.AmountUSD,
		AccountID:    d.AccountID,
		ClientName:   nullable(d.ClientName),
		RecordDate:   d.RecordDate,
		Notes:        nullable(d.Notes),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.HasClient() {
		m.ClientID = nullable(*d.ClientID)
	}
	return m
}

// ToDomainRecord converts a model Record to a domain Record
func ToDomainRecord(m models.Record) domain.Record {
	return domain.Record{
		RecordID:     m.RecordID,
		Kind:         domain.RecordKind(m.Kind),
		FlowType:     domain.FlowType(m.FlowType),
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		AmountUSD:    m.AmountUSD,
		AccountID:    m.AccountID,
		ClientID:     m.ClientID,
		ClientName:   deref(m.ClientName),
		RecordDate:   m.RecordDate,
		Notes:        deref(m.Notes),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelClient converts a domain Client to a model Client
func ToModelClient(d domain.Client) models.Client {
	return models.Client{ClientID: d.ClientID, Name: d.Name, AuditFields: ToModelAuditFields(d.AuditFields)}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{ClientID: m.ClientID, Name: m.Name, AuditFields: ToDomainAuditFields(m.AuditFields)}
}
