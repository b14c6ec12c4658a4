package bolt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	repos portsrepo.RepositoryProvider
	day   time.Time
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	store, err := Open(filepath.Join(s.T().TempDir(), "treasury.db"))
	s.Require().NoError(err)
	s.store = store
	s.repos = NewRepositoryProvider(store)
	s.day = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repos.ChartRepo.SaveFund(s.ctx, domain.Fund{FundID: "ZAKAT", Name: "Zakat", Kind: domain.FundRestricted}, s.audit(domain.EntityFund, "ZAKAT", domain.ActionCreate)))
	s.Require().NoError(s.repos.ChartRepo.SaveFund(s.ctx, domain.Fund{FundID: "GENERAL", Name: "General", Kind: domain.FundGeneral}, s.audit(domain.EntityFund, "GENERAL", domain.ActionCreate)))
	for _, a := range []domain.Account{
		{AccountID: "acc-income", Code: "4100", Name: "Zakat Income", AccountType: domain.Income, FundID: "ZAKAT", IsActive: true},
		{AccountID: "acc-cash", Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true},
	} {
		s.Require().NoError(s.repos.ChartRepo.SaveAccount(s.ctx, a, s.audit(domain.EntityAccount, a.AccountID, domain.ActionCreate)))
	}
}

func (s *StoreTestSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) audit(entityType, entityID string, action domain.AuditAction) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:    fmt.Sprintf("%s-%s-%s", entityType, entityID, action),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    "tester",
		At:         s.day,
	}
}

func (s *StoreTestSuite) newTransaction(id string, state domain.TransactionState, date time.Time, createdAt time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID:   id,
		ReferenceNumber: "RCP202403100001",
		Direction:       domain.DirectionIncome,
		Category:        "Zakat",
		Amount:          decimal.RequireFromString("5000.00"),
		FundID:          "ZAKAT",
		AccountID:       "acc-cash",
		PaymentMode:     domain.PaymentCash,
		TransactionDate: date,
		Description:     "zakat collection",
		State:           state,
		AuditFields:     domain.AuditFields{CreatedAt: createdAt, CreatedBy: "creator", LastUpdatedAt: createdAt, LastUpdatedBy: "creator"},
	}
}

func (s *StoreTestSuite) postingEntry(txnID, entryID string) domain.JournalEntry {
	amount := decimal.RequireFromString("5000.00")
	return domain.JournalEntry{
		EntryID:       entryID,
		TransactionID: txnID,
		Kind:          domain.EntryPosting,
		EntryDate:     s.day,
		Description:   "zakat",
		FundID:        "ZAKAT",
		CreatedAt:     s.day.Add(time.Hour),
		CreatedBy:     "approver",
		Lines: []domain.Line{
			{LineID: entryID + "-1", AccountID: "acc-cash", Side: domain.Debit, Amount: amount, FundID: "ZAKAT"},
			{LineID: entryID + "-2", AccountID: "acc-income", Side: domain.Credit, Amount: amount, FundID: "ZAKAT"},
		},
	}
}

func (s *StoreTestSuite) TestChartLookups() {
	byCode, err := s.repos.ChartRepo.FindAccountByCode(s.ctx, "4100")
	s.Require().NoError(err)
	s.Equal("acc-income", byCode.AccountID)
	s.Equal("ZAKAT", byCode.FundID)

	accounts, err := s.repos.ChartRepo.ListAccounts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(accounts, 2)
	s.Equal("1000", accounts[0].Code, "accounts are ordered by code")

	funds, err := s.repos.ChartRepo.ListFunds(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(funds, 2)
	s.Equal("GENERAL", funds[0].FundID)

	_, err = s.repos.ChartRepo.FindAccountByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.repos.ChartRepo.FindFundByID(s.ctx, "MISSING")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestSaveAccountRejectsDuplicateCode() {
	dup := domain.Account{AccountID: "other", Code: "1000", Name: "Petty cash", AccountType: domain.Asset, IsActive: true}
	err := s.repos.ChartRepo.SaveAccount(s.ctx, dup, s.audit(domain.EntityAccount, "other", domain.ActionCreate))
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.repos.ChartRepo.FindAccountByID(s.ctx, "other")
	s.ErrorIs(err, apperrors.ErrNotFound, "nothing is written on a duplicate")
}

func (s *StoreTestSuite) TestUpdateAndDeactivateAccount() {
	acc, err := s.repos.ChartRepo.FindAccountByID(s.ctx, "acc-cash")
	s.Require().NoError(err)
	acc.Name = "Cash in hand"
	s.Require().NoError(s.repos.ChartRepo.UpdateAccount(s.ctx, *acc, s.audit(domain.EntityAccount, "acc-cash", domain.ActionUpdate)))
	s.Require().NoError(s.repos.ChartRepo.DeactivateAccount(s.ctx, "acc-cash", "treasurer", s.day, s.audit(domain.EntityAccount, "acc-cash", domain.ActionDeactivate)))

	got, err := s.repos.ChartRepo.FindAccountByID(s.ctx, "acc-cash")
	s.Require().NoError(err)
	s.Equal("Cash in hand", got.Name)
	s.False(got.IsActive)
	s.Equal("treasurer", got.LastUpdatedBy)

	trail, err := s.repos.AuditRepo.ListAuditEntries(s.ctx, domain.EntityAccount, "acc-cash")
	s.Require().NoError(err)
	s.Require().Len(trail, 3)
	s.Equal([]domain.AuditAction{domain.ActionCreate, domain.ActionUpdate, domain.ActionDeactivate},
		[]domain.AuditAction{trail[0].Action, trail[1].Action, trail[2].Action})
}

func (s *StoreTestSuite) TestReferenceSequencePerPrefixAndDay() {
	next := func(prefix string, day time.Time) int {
		n, err := s.repos.TransactionRepo.NextReferenceSequence(s.ctx, prefix, day)
		s.Require().NoError(err)
		return n
	}
	s.Equal(1, next("RCP", s.day))
	s.Equal(2, next("RCP", s.day))
	s.Equal(1, next("EXP", s.day))
	s.Equal(1, next("RCP", s.day.AddDate(0, 0, 1)))
	s.Equal(3, next("RCP", s.day.Add(5*time.Hour)))
}

func (s *StoreTestSuite) TestApplyStateChangeIsCompareAndSet() {
	txn := s.newTransaction("t1", domain.StateDraft, s.day, s.day)
	s.Require().NoError(s.repos.TransactionRepo.SaveTransaction(s.ctx, txn, s.audit(domain.EntityTransaction, "t1", domain.ActionCreate)))

	change := domain.StateChange{TransactionID: "t1", From: domain.StateDraft, To: domain.StateVerified, ActorID: "verifier", At: s.day, Audit: s.audit(domain.EntityTransaction, "t1", domain.ActionVerify)}
	s.Require().NoError(s.repos.TransactionRepo.ApplyStateChange(s.ctx, change))

	err := s.repos.TransactionRepo.ApplyStateChange(s.ctx, change)
	var ist *apperrors.InvalidStateTransitionError
	s.Require().ErrorAs(err, &ist)
	s.Equal(string(domain.StateVerified), ist.From)

	got, err := s.repos.TransactionRepo.FindTransactionByID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(domain.StateVerified, got.State)
	s.Equal("verifier", got.VerifiedBy)
	s.Require().NotNil(got.VerifiedAt)

	trail, err := s.repos.AuditRepo.ListAuditEntries(s.ctx, domain.EntityTransaction, "t1")
	s.Require().NoError(err)
	s.Len(trail, 2, "the rejected change wrote no audit row")
}

func (s *StoreTestSuite) TestCommitPostingWritesEntryOnce() {
	txn := s.newTransaction("t1", domain.StateApproved, s.day, s.day)
	s.Require().NoError(s.repos.TransactionRepo.SaveTransaction(s.ctx, txn, s.audit(domain.EntityTransaction, "t1", domain.ActionCreate)))

	commit := domain.PostingCommit{TransactionID: "t1", From: domain.StateApproved, Entry: s.postingEntry("t1", "e1"), PostedBy: "approver", PostedAt: s.day, Audit: s.audit(domain.EntityTransaction, "t1", domain.ActionPost)}
	s.Require().NoError(s.repos.TransactionRepo.CommitPosting(s.ctx, commit))

	second := commit
	second.Entry = s.postingEntry("t1", "e2")
	err := s.repos.TransactionRepo.CommitPosting(s.ctx, second)
	s.ErrorIs(err, apperrors.ErrInvalidStateTransition)

	_, err = s.repos.JournalRepo.FindEntryByID(s.ctx, "e2")
	s.ErrorIs(err, apperrors.ErrNotFound, "the losing commit left no entry behind")

	entry, err := s.repos.JournalRepo.FindEntryByID(s.ctx, "e1")
	s.Require().NoError(err)
	s.Require().Len(entry.Lines, 2)
	s.True(entry.Lines[0].Amount.Equal(decimal.RequireFromString("5000")))

	got, err := s.repos.TransactionRepo.FindTransactionByID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(domain.StatePosted, got.State)
	s.Equal([]string{"e1"}, got.JournalEntryIDs)
	s.Equal("approver", got.PostedBy)

	used, err := s.repos.ChartRepo.AccountHasLines(s.ctx, "acc-cash")
	s.Require().NoError(err)
	s.True(used)
}

func (s *StoreTestSuite) TestCommitReversal() {
	txn := s.newTransaction("t1", domain.StateApproved, s.day, s.day)
	s.Require().NoError(s.repos.TransactionRepo.SaveTransaction(s.ctx, txn, s.audit(domain.EntityTransaction, "t1", domain.ActionCreate)))

	reversal := s.postingEntry("t1", "r1")
	reversal.Kind = domain.EntryReversal
	reversal.ReversalOf = "e1"
	reversal.Lines[0].Side, reversal.Lines[1].Side = domain.Credit, domain.Debit
	commit := domain.ReversalCommit{
		TransactionID: "t1",
		Entry:         reversal,
		Record:        domain.ReversalRecord{ReversalEntryID: "r1", ReversedBy: "approver", ReversedAt: s.day, Reason: "data entry error"},
		Audit:         s.audit(domain.EntityTransaction, "t1", domain.ActionReverse),
	}
	// Not posted yet.
	s.ErrorIs(s.repos.TransactionRepo.CommitReversal(s.ctx, commit), apperrors.ErrInvalidStateTransition)

	post := domain.PostingCommit{TransactionID: "t1", From: domain.StateApproved, Entry: s.postingEntry("t1", "e1"), PostedBy: "approver", PostedAt: s.day, Audit: s.audit(domain.EntityTransaction, "t1", domain.ActionPost)}
	s.Require().NoError(s.repos.TransactionRepo.CommitPosting(s.ctx, post))
	s.Require().NoError(s.repos.TransactionRepo.CommitReversal(s.ctx, commit))

	got, err := s.repos.TransactionRepo.FindTransactionByID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(domain.StateReversed, got.State)
	s.Require().NotNil(got.Reversal)
	s.Equal("data entry error", got.Reversal.Reason)
	s.Equal("e1", got.PostingEntryID())

	entries, err := s.repos.JournalRepo.FindEntriesByTransactionID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(domain.EntryPosting, entries[0].Kind)
	s.Equal(domain.EntryReversal, entries[1].Kind)
	s.Equal("e1", entries[1].ReversalOf)

	lines, err := s.repos.JournalRepo.ListAccountLines(s.ctx, "acc-cash", s.day)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.Equal(domain.Debit, lines[0].Side)
	s.Equal(domain.Credit, lines[1].Side)
}

func (s *StoreTestSuite) TestListAccountLinesRespectsCutoff() {
	txn := s.newTransaction("t1", domain.StateApproved, s.day, s.day)
	s.Require().NoError(s.repos.TransactionRepo.SaveTransaction(s.ctx, txn, s.audit(domain.EntityTransaction, "t1", domain.ActionCreate)))
	post := domain.PostingCommit{TransactionID: "t1", From: domain.StateApproved, Entry: s.postingEntry("t1", "e1"), PostedBy: "approver", PostedAt: s.day, Audit: s.audit(domain.EntityTransaction, "t1", domain.ActionPost)}
	s.Require().NoError(s.repos.TransactionRepo.CommitPosting(s.ctx, post))

	before, err := s.repos.JournalRepo.ListAccountLines(s.ctx, "acc-cash", s.day.AddDate(0, 0, -1))
	s.Require().NoError(err)
	s.Empty(before)

	snap, err := s.repos.ReportingRepo.LoadSnapshot(s.ctx, s.day)
	s.Require().NoError(err)
	s.Len(snap.Accounts, 2)
	s.Len(snap.Funds, 2)
	s.Len(snap.Lines, 2)

	early, err := s.repos.ReportingRepo.LoadSnapshot(s.ctx, s.day.AddDate(0, 0, -1))
	s.Require().NoError(err)
	s.Empty(early.Lines)
}

func (s *StoreTestSuite) TestListTransactionsPagesNewestFirst() {
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("t%d", i)
		txn := s.newTransaction(id, domain.StateDraft, s.day.AddDate(0, 0, i), s.day.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.repos.TransactionRepo.SaveTransaction(s.ctx, txn, s.audit(domain.EntityTransaction, id, domain.ActionCreate)))
	}
	expense := s.newTransaction("x1", domain.StateDraft, s.day, s.day)
	expense.Direction = domain.DirectionExpense
	s.Require().NoError(s.repos.TransactionRepo.SaveTransaction(s.ctx, expense, s.audit(domain.EntityTransaction, "x1", domain.ActionCreate)))

	filter := domain.TransactionFilter{Direction: domain.DirectionIncome}
	page1, next, err := s.repos.TransactionRepo.ListTransactions(s.ctx, filter, 2, nil)
	s.Require().NoError(err)
	s.Require().NotNil(next)
	s.Equal([]string{"t4", "t3"}, ids(page1))

	page2, next, err := s.repos.TransactionRepo.ListTransactions(s.ctx, filter, 2, next)
	s.Require().NoError(err)
	s.Require().NotNil(next)
	s.Equal([]string{"t2", "t1"}, ids(page2))

	page3, next, err := s.repos.TransactionRepo.ListTransactions(s.ctx, filter, 2, next)
	s.Require().NoError(err)
	s.Nil(next)
	s.Equal([]string{"t0"}, ids(page3))

	from := s.day.AddDate(0, 0, 1)
	to := s.day.AddDate(0, 0, 2)
	ranged, _, err := s.repos.TransactionRepo.ListTransactions(s.ctx, domain.TransactionFilter{From: &from, To: &to}, 10, nil)
	s.Require().NoError(err)
	s.Equal([]string{"t2", "t1"}, ids(ranged))

	bad := "%%%"
	_, _, err = s.repos.TransactionRepo.ListTransactions(s.ctx, filter, 2, &bad)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StoreTestSuite) TestPeriodLocks() {
	lock := domain.PeriodLock{Year: 2024, Month: 3, Reason: "March closed", LockedBy: "treasurer", LockedAt: s.day}
	s.Require().NoError(s.repos.PeriodLockRepo.SavePeriodLock(s.ctx, lock, s.audit(domain.EntityPeriodLock, lock.Key(), domain.ActionLock)))
	s.ErrorIs(s.repos.PeriodLockRepo.SavePeriodLock(s.ctx, lock, s.audit(domain.EntityPeriodLock, lock.Key(), domain.ActionLock)), apperrors.ErrDuplicate)

	earlier := domain.PeriodLock{Year: 2023, Month: 12, LockedBy: "treasurer", LockedAt: s.day}
	s.Require().NoError(s.repos.PeriodLockRepo.SavePeriodLock(s.ctx, earlier, s.audit(domain.EntityPeriodLock, earlier.Key(), domain.ActionLock)))

	locks, err := s.repos.PeriodLockRepo.ListPeriodLocks(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(locks, 2)
	s.Equal("2023-12", locks[0].Key())

	got, err := s.repos.PeriodLockRepo.FindPeriodLock(s.ctx, 2024, 3)
	s.Require().NoError(err)
	s.Equal("March closed", got.Reason)

	s.Require().NoError(s.repos.PeriodLockRepo.DeletePeriodLock(s.ctx, 2024, 3, s.audit(domain.EntityPeriodLock, "2024-03", domain.ActionUnlock)))
	_, err = s.repos.PeriodLockRepo.FindPeriodLock(s.ctx, 2024, 3)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.ErrorIs(s.repos.PeriodLockRepo.DeletePeriodLock(s.ctx, 2024, 3, s.audit(domain.EntityPeriodLock, "2024-03", domain.ActionUnlock)), apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestCommitsRecheckPeriodLocks() {
	txn := s.newTransaction("t1", domain.StateApproved, s.day, s.day)
	s.Require().NoError(s.repos.TransactionRepo.SaveTransaction(s.ctx, txn, s.audit(domain.EntityTransaction, "t1", domain.ActionCreate)))
	lock := domain.PeriodLock{Year: 2024, Month: 3, LockedBy: "treasurer", LockedAt: s.day}
	s.Require().NoError(s.repos.PeriodLockRepo.SavePeriodLock(s.ctx, lock, s.audit(domain.EntityPeriodLock, lock.Key(), domain.ActionLock)))

	post := domain.PostingCommit{
		TransactionID: "t1",
		From:          domain.StateApproved,
		Entry:         s.postingEntry("t1", "e1"),
		PostedBy:      "approver",
		PostedAt:      s.day,
		Audit:         s.audit(domain.EntityTransaction, "t1", domain.ActionPost),
		OpenPeriods:   []time.Time{s.day},
	}
	err := s.repos.TransactionRepo.CommitPosting(s.ctx, post)
	var locked *apperrors.PeriodLockedError
	s.Require().ErrorAs(err, &locked)
	s.Equal(2024, locked.Year)
	s.Equal(3, locked.Month)
	s.ErrorIs(err, apperrors.ErrPeriodLocked)

	_, err = s.repos.JournalRepo.FindEntryByID(s.ctx, "e1")
	s.ErrorIs(err, apperrors.ErrNotFound, "a rejected commit writes no entry")
	got, err := s.repos.TransactionRepo.FindTransactionByID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(domain.StateApproved, got.State)

	s.Require().NoError(s.repos.PeriodLockRepo.DeletePeriodLock(s.ctx, 2024, 3, s.audit(domain.EntityPeriodLock, "2024-03", domain.ActionUnlock)))
	s.Require().NoError(s.repos.TransactionRepo.CommitPosting(s.ctx, post))

	// The reversal lands in April, but the original entry's month is checked too.
	april := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repos.PeriodLockRepo.SavePeriodLock(s.ctx, lock, s.audit(domain.EntityPeriodLock, lock.Key(), domain.ActionLock)))
	reversal := s.postingEntry("t1", "r1")
	reversal.Kind = domain.EntryReversal
	reversal.ReversalOf = "e1"
	reversal.EntryDate = april
	reversal.Lines[0].Side, reversal.Lines[1].Side = domain.Credit, domain.Debit
	commit := domain.ReversalCommit{
		TransactionID: "t1",
		Entry:         reversal,
		Record:        domain.ReversalRecord{ReversalEntryID: "r1", ReversedBy: "approver", ReversedAt: april, Reason: "duplicate"},
		Audit:         s.audit(domain.EntityTransaction, "t1", domain.ActionReverse),
		OpenPeriods:   []time.Time{s.day, april},
	}
	s.ErrorIs(s.repos.TransactionRepo.CommitReversal(s.ctx, commit), apperrors.ErrPeriodLocked)
	got, err = s.repos.TransactionRepo.FindTransactionByID(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(domain.StatePosted, got.State)
}

func TestOpenReusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treasury.db")
	store, err := Open(path)
	require.NoError(t, err)
	repos := NewRepositoryProvider(store)
	err = repos.ChartRepo.SaveFund(context.Background(), domain.Fund{FundID: "GENERAL", Name: "General", Kind: domain.FundGeneral},
		domain.AuditEntry{AuditID: "a1", EntityType: domain.EntityFund, EntityID: "GENERAL", Action: domain.ActionCreate})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, path, reopened.Path())
	fund, err := NewRepositoryProvider(reopened).ChartRepo.FindFundByID(context.Background(), "GENERAL")
	require.NoError(t, err)
	assert.Equal(t, domain.FundGeneral, fund.Kind)

	_, err = NewRepositoryProvider(reopened).TransactionRepo.FindTransactionByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func ids(txns []domain.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.TransactionID
	}
	return out
}
