package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/remittance_ledger/internal/adapters/database/boltdb"
	"github.com/SscSPs/remittance_ledger/internal/apperrors"
	"github.com/SscSPs/remittance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/remittance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remittance_ledger/internal/core/ports/services"
	"github.com/SscSPs/remittance_ledger/internal/core/services"
	"github.com/SscSPs/remittance_ledger/internal/utils/accounting"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReassignmentServiceTestSuite struct {
	suite.Suite
	store *boltdb.Store
	svc   *portssvc.ServiceContainer
	ctx   context.Context
}

func (s *ReassignmentServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store, s.svc = newLedger(s.T(), services.WithClock(newFakeClock().Now))
}

func TestReassignmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReassignmentServiceTestSuite))
}

// submit stores an unmatched inflow record and its posting.
func (s *ReassignmentServiceTestSuite) submit(kind domain.RecordKind, id, amountUSD, accountID string) *domain.JournalEntry {
	_, entry, err := s.svc.Intake.SubmitRecord(s.ctx, kind, map[string]any{
		"id": id, "type": "inflow", "amountUsd": amountUSD, "accountId": accountID,
	}, testUser)
	s.Require().NoError(err)
	return entry
}

func (s *ReassignmentServiceTestSuite) balance(accountID string) string {
	entries, err := s.store.Journal().ListEntries(s.ctx, portsrepo.EntryFilter{})
	s.Require().NoError(err)
	return accounting.ComputeBalance(accountID, entries, accounting.BalanceOptions{}).String()
}

func (s *ReassignmentServiceTestSuite) TestReassignCashAppendsTransfer() {
	original := s.submit(domain.CashRecord, "12", "26.04", bankAccount)

	transfer, err := s.svc.Reassignment.ReassignToClient(s.ctx, domain.CashRecord, "12", acmeID, testUser)
	s.Require().NoError(err)

	s.Equal(domain.UnmatchedCashAccountID, transfer.DebitAccountID)
	s.Equal(acmeAccount, transfer.CreditAccountID)
	s.True(transfer.DebitAmount.Equal(d("26.04")))
	s.Equal("Transfer Cash Rec #12 to Acme Trading", transfer.Description)
	s.Equal(domain.EventTransfer, transfer.Source.Event)
	s.NotEqual(original.EntryID, transfer.EntryID)
	s.False(transfer.Touches(bankAccount), "reassignment never touches the asset account")

	entries, err := s.svc.Ledger.EntriesForRecord(s.ctx, domain.CashRecord, "12")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(original.EntryID, entries[0].EntryID, "original entry is left untouched")
	s.Equal(bankAccount, entries[0].DebitAccountID)
	s.Equal(domain.UnmatchedCashAccountID, entries[0].CreditAccountID)
	s.True(entries[0].DebitAmount.Equal(d("26.04")))
	s.Equal(transfer.EntryID, entries[1].EntryID)

	s.Equal("26.04", s.balance(bankAccount))
	s.Equal("0", s.balance(domain.UnmatchedCashAccountID))
	s.Equal("-26.04", s.balance(acmeAccount))

	record, err := s.store.Records().FindRecord(s.ctx, domain.CashRecord, "12")
	s.Require().NoError(err)
	s.Require().True(record.HasClient())
	s.Equal(acmeID, *record.ClientID)
	s.Equal(acmeName, record.ClientName)
}

func (s *ReassignmentServiceTestSuite) TestReassignUSDTUsesUSDTSuspense() {
	s.submit(domain.USDTRecord, "12", "50", walletAccount)

	transfer, err := s.svc.Reassignment.ReassignToClient(s.ctx, domain.USDTRecord, "12", acmeID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.UnmatchedUSDTAccountID, transfer.DebitAccountID)
	s.Equal("Transfer USDT Rec #12 to Acme Trading", transfer.Description)
	s.Equal("50", s.balance(walletAccount))
	s.Equal("0", s.balance(domain.UnmatchedUSDTAccountID))
}

func (s *ReassignmentServiceTestSuite) TestSecondReassignmentIsRejected() {
	s.submit(domain.CashRecord, "12", "26.04", bankAccount)

	_, err := s.svc.Reassignment.ReassignToClient(s.ctx, domain.CashRecord, "12", acmeID, testUser)
	s.Require().NoError(err)

	_, err = s.svc.Reassignment.ReassignToClient(s.ctx, domain.CashRecord, "12", acmeID, testUser)
	s.ErrorIs(err, apperrors.ErrRecordAlreadyAssigned)

	entries, err := s.svc.Ledger.EntriesForRecord(s.ctx, domain.CashRecord, "12")
	s.Require().NoError(err)
	s.Len(entries, 2, "no second transfer is posted")
}

func (s *ReassignmentServiceTestSuite) TestConcurrentReassignmentsPostOnce() {
	s.submit(domain.CashRecord, "12", "26.04", bankAccount)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Reassignment.ReassignToClient(s.ctx, domain.CashRecord, "12", acmeID, testUser)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.ErrorIs(err, apperrors.ErrRecordAlreadyAssigned)
	}
	s.Equal(1, ok)
	s.Equal("0", s.balance(domain.UnmatchedCashAccountID))
	s.Equal("-26.04", s.balance(acmeAccount))
}

func (s *ReassignmentServiceTestSuite) TestRecordWithClientAtIntakeIsAlreadyAssigned() {
	_, _, err := s.svc.Intake.SubmitRecord(s.ctx, domain.CashRecord, map[string]any{
		"id": "30", "type": "inflow", "amountUsd": "200", "accountId": bankAccount, "clientId": acmeID,
	}, testUser)
	s.Require().NoError(err)

	_, err = s.svc.Reassignment.ReassignToClient(s.ctx, domain.CashRecord, "30", acmeID, testUser)
	s.ErrorIs(err, apperrors.ErrRecordAlreadyAssigned)
}

func (s *ReassignmentServiceTestSuite) TestMissingOriginalEntryRollsBackAssignment() {
	s.Require().NoError(s.store.Records().SaveRecord(s.ctx, domain.Record{
		RecordID: "99", Kind: domain.CashRecord, FlowType: domain.Inflow,
		AmountUSD: d("10"), AccountID: bankAccount,
	}))

	_, err := s.svc.Reassignment.ReassignToClient(s.ctx, domain.CashRecord, "99", acmeID, testUser)
	s.ErrorIs(err, apperrors.ErrOriginalEntryNotFound)

	record, err := s.store.Records().FindRecord(s.ctx, domain.CashRecord, "99")
	s.Require().NoError(err)
	s.False(record.HasClient(), "the client gate is undone with the transaction")
}

func (s *ReassignmentServiceTestSuite) TestUnknownRecordAndClient() {
	_, err := s.svc.Reassignment.ReassignToClient(s.ctx, domain.CashRecord, "404", acmeID, testUser)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.submit(domain.CashRecord, "12", "26.04", bankAccount)
	_, err = s.svc.Reassignment.ReassignToClient(s.ctx, domain.CashRecord, "12", "404", testUser)
	s.ErrorIs(err, apperrors.ErrUnknownClient)

	_, err = s.svc.Reassignment.ReassignToClient(s.ctx, domain.RecordKind("gold"), "12", acmeID, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidRecord)
}

// saveLegacy writes an entry the way older postings were written: no source
// reference, only the description tag.
func (s *ReassignmentServiceTestSuite) saveLegacy(id, desc, amount string, at time.Time) {
	s.Require().NoError(s.store.Journal().SaveJournalEntry(s.ctx, domain.JournalEntry{
		EntryID: id, EntryDate: at, CreatedAt: at, Description: desc,
		DebitAccountID: walletAccount, CreditAccountID: domain.UnmatchedUSDTAccountID,
		DebitAmount: d(amount), CreditAmount: d(amount), AmountUSD: d(amount),
	}))
}

func (s *ReassignmentServiceTestSuite) TestLegacyEntriesMatchedByDescriptionLatestWins() {
	s.Require().NoError(s.store.Records().SaveRecord(s.ctx, domain.Record{
		RecordID: "77", Kind: domain.USDTRecord, FlowType: domain.Inflow, AmountUSD: d("15"), AccountID: walletAccount,
	}))
	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	s.saveLegacy("legacy-1", "USDT inflow Rec #77", "10", base)
	s.saveLegacy("legacy-2", "USDT inflow Rec #77 (corrected)", "15", base.Add(time.Hour))
	s.saveLegacy("legacy-3", "USDT inflow Rec #770", "99", base.Add(2*time.Hour))

	transfer, err := s.svc.Reassignment.ReassignToClient(s.ctx, domain.USDTRecord, "77", acmeID, testUser)
	s.Require().NoError(err)
	s.True(transfer.AmountUSD.Equal(d("15")), "most recent matching entry is used")
}

func (s *ReassignmentServiceTestSuite) TestRecordLockIsTakenAndReleased() {
	locker := new(MockRecordLocker)
	var released bool
	unlock := portssvc.UnlockFunc(func(context.Context) error {
		released = true
		return nil
	})
	locker.On("LockRecord", mock.Anything, domain.CashRecord, "12", 3*time.Second).Return(unlock, nil).Once()

	svc := services.NewReassignmentService(s.store, services.WithRecordLocker(locker, 3*time.Second))
	s.submit(domain.CashRecord, "12", "26.04", bankAccount)

	_, err := svc.ReassignToClient(s.ctx, domain.CashRecord, "12", acmeID, testUser)
	s.Require().NoError(err)
	s.True(released)
	locker.AssertExpectations(s.T())
}

func (s *ReassignmentServiceTestSuite) TestLockFailureWritesNothing() {
	locker := new(MockRecordLocker)
	busy := errors.New("record busy")
	locker.On("LockRecord", mock.Anything, domain.CashRecord, "12", mock.Anything).Return(nil, busy)

	svc := services.NewReassignmentService(s.store, services.WithRecordLocker(locker, time.Second))
	s.submit(domain.CashRecord, "12", "26.04", bankAccount)

	_, err := svc.ReassignToClient(s.ctx, domain.CashRecord, "12", acmeID, testUser)
	s.ErrorIs(err, busy)

	record, err := s.store.Records().FindRecord(s.ctx, domain.CashRecord, "12")
	s.Require().NoError(err)
	s.False(record.HasClient())
}
