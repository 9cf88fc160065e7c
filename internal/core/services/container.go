package services

import (
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
)

// NewServiceContainer wires every ledger service over one store.
func NewServiceContainer(store portsrepo.LedgerStore, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:      NewAccountService(store, options...),
		Posting:      NewPostingService(store, options...),
		Reassignment: NewReassignmentService(store, options...),
		Intake:       NewIntakeService(store, options...),
		Reporting:    NewReportingService(store, options...),
		Ledger:       NewLedgerQueryService(store.Journal()),
	}
}
