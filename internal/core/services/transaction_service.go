package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/dto"
	"github.com/google/uuid"
)

const defaultPageSize = 20

// transactionService drives transactions through the workflow policy and
// hands approved ones to the posting and reversal engines.
type transactionService struct {
	BaseService
	repo    portsrepo.TransactionRepositoryFacade
	journal portsrepo.JournalReader
	audit   portsrepo.AuditRepository
	chart   portssvc.ChartReaderSvc
	periods portssvc.PeriodSvcFacade
	policy  domain.WorkflowPolicy
	engine  *postingEngine
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithWorkflowPolicy sets the approval policy. The default is the three-step policy.
func WithWorkflowPolicy(policy domain.WorkflowPolicy) TransactionServiceOption {
	return func(s *transactionService) {
		s.policy = policy
	}
}

// WithTransactionClock sets the clock used for audit fields and reversal dates.
func WithTransactionClock(clock portssvc.Clock) TransactionServiceOption {
	return func(s *transactionService) {
		s.Clock = clock
	}
}

// WithPeriodGuard rejects postings and reversals in locked months.
func WithPeriodGuard(periods portssvc.PeriodSvcFacade) TransactionServiceOption {
	return func(s *transactionService) {
		s.periods = periods
	}
}

// WithAuditReader enables ListAuditTrail.
func WithAuditReader(audit portsrepo.AuditRepository) TransactionServiceOption {
	return func(s *transactionService) {
		s.audit = audit
	}
}

// NewTransactionService creates the transaction workflow service.
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, journal portsrepo.JournalReader, chart portssvc.ChartReaderSvc, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		repo:    repo,
		journal: journal,
		chart:   chart,
		policy:  domain.ThreeStepPolicy(),
		engine:  &postingEngine{chart: chart},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) Policy() domain.WorkflowPolicy {
	return s.policy
}

// checkStep enforces the step's four-eyes rule, then its capability requirement.
func (s *transactionService) checkStep(ctx context.Context, step domain.Step, txn domain.Transaction, actor domain.Actor) error {
	if step.DistinctFromCreator && actor.ID == txn.CreatedBy {
		return &apperrors.SelfVerificationError{TransactionID: txn.TransactionID, ActorID: actor.ID, Step: step.Name}
	}
	return s.Authorize(ctx, actor, step.Name, step.Requires...)
}

func (s *transactionService) ensureOpen(ctx context.Context, t time.Time) error {
	if s.periods == nil {
		return nil
	}
	return s.periods.EnsureOpen(ctx, t)
}

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error) {
	if err := s.Authorize(ctx, actor, "create transaction", domain.CapCreator, domain.CapTreasurer); err != nil {
		return nil, err
	}
	if !req.Direction.IsValid() {
		return nil, fmt.Errorf("%w: invalid direction %q", apperrors.ErrValidation, req.Direction)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if err := ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	rule, err := s.chart.ResolveCategory(req.Direction, req.Category)
	if err != nil {
		return nil, err
	}
	fundID := strings.ToUpper(strings.TrimSpace(req.FundID))
	if fundID == "" {
		fundID = rule.FundID
	}
	if fundID == "" {
		fundID = domain.GeneralFundID
	}

	accountID := req.AccountID
	if accountID == "" {
		if req.PaymentMode == "" {
			return nil, fmt.Errorf("%w: accountID or paymentMode is required", apperrors.ErrValidation)
		}
		counter, err := s.chart.ResolveCounterAccount(ctx, req.PaymentMode, fundID)
		if err != nil {
			return nil, err
		}
		accountID = counter.AccountID
	}

	now := s.Now()
	date := domain.DateOnly(now)
	if req.TransactionDate != nil {
		date = domain.CalendarDate(*req.TransactionDate)
	}
	if err := s.ensureOpen(ctx, date); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		Direction:       req.Direction,
		Category:        rule.Name,
		Amount:          req.Amount.Round(domain.MoneyScale),
		FundID:          fundID,
		AccountID:       accountID,
		PaymentMode:     req.PaymentMode,
		TransactionDate: date,
		Description:     strings.TrimSpace(req.Description),
		Party:           strings.TrimSpace(req.Party),
		VoucherRef:      req.VoucherRef,
		State:           s.policy.Initial,
		AuditFields:     domain.AuditFields{CreatedAt: now, CreatedBy: actor.ID, LastUpdatedAt: now, LastUpdatedBy: actor.ID},
	}
	if txn.State == domain.StateApproved {
		// Creation is the approval under the one-step policy.
		txn.ApprovedBy = actor.ID
		txn.ApprovedAt = &now
	}

	// Dry run so that a transaction that can never post is rejected up front.
	if _, err := s.engine.Build(ctx, txn, actor.ID, now); err != nil {
		s.LogDebug(ctx, "Transaction rejected by posting rules", slog.String("error", err.Error()))
		return nil, err
	}

	prefix := txn.Direction.ReferencePrefix()
	seq, err := s.repo.NextReferenceSequence(ctx, prefix, domain.DateOnly(now))
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate reference number", slog.String("prefix", prefix))
		return nil, err
	}
	txn.ReferenceNumber = fmt.Sprintf("%s%s%04d", prefix, now.Format("20060102"), seq)

	audit := newAuditEntry(domain.EntityTransaction, txn.TransactionID, domain.ActionCreate, actor, now, txn, "")
	if err := s.repo.SaveTransaction(ctx, txn, audit); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("reference", txn.ReferenceNumber),
		slog.String("state", string(txn.State)))

	if s.policy.AutoPost {
		return s.Post(ctx, txn.TransactionID, actor)
	}
	return &txn, nil
}

func (s *transactionService) Verify(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	return s.advance(ctx, transactionID, domain.StateVerified, domain.ActionVerify, actor)
}

func (s *transactionService) Approve(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	return s.advance(ctx, transactionID, domain.StateApproved, domain.ActionApprove, actor)
}

// advance performs a transition that writes no journal entry.
func (s *transactionService) advance(ctx context.Context, transactionID string, to domain.TransactionState, action domain.AuditAction, actor domain.Actor) (*domain.Transaction, error) {
	txn, err := s.repo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	step, ok := s.policy.Find(txn.State, to)
	if !ok {
		return nil, &apperrors.InvalidStateTransitionError{TransactionID: transactionID, From: string(txn.State), To: string(to)}
	}
	if err := s.checkStep(ctx, step, *txn, actor); err != nil {
		return nil, err
	}

	now := s.Now()
	change := domain.StateChange{
		TransactionID: transactionID,
		From:          txn.State,
		To:            to,
		ActorID:       actor.ID,
		At:            now,
		Audit:         newAuditEntry(domain.EntityTransaction, transactionID, action, actor, now, nil, fmt.Sprintf("%s -> %s", txn.State, to)),
	}
	if err := s.repo.ApplyStateChange(ctx, change); err != nil {
		s.LogError(ctx, err, "Failed to apply state change",
			slog.String("transaction_id", transactionID),
			slog.String("to", string(to)))
		return nil, err
	}

	txn.State = to
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor.ID
	switch to {
	case domain.StateVerified:
		txn.VerifiedBy, txn.VerifiedAt = actor.ID, &now
	case domain.StateApproved:
		txn.ApprovedBy, txn.ApprovedAt = actor.ID, &now
	}
	s.LogInfo(ctx, "Transaction advanced", slog.String("transaction_id", transactionID), slog.String("state", string(to)))
	return txn, nil
}

func (s *transactionService) Post(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	txn, err := s.repo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.State == domain.StatePosted {
		s.LogDebug(ctx, "Transaction already posted", slog.String("transaction_id", transactionID))
		return txn, nil
	}
	step, ok := s.policy.Find(txn.State, domain.StatePosted)
	if !ok {
		return nil, &apperrors.InvalidStateTransitionError{TransactionID: transactionID, From: string(txn.State), To: string(domain.StatePosted)}
	}
	if err := s.checkStep(ctx, step, *txn, actor); err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, txn.TransactionDate); err != nil {
		return nil, err
	}

	now := s.Now()
	entry, err := s.engine.Build(ctx, *txn, actor.ID, now)
	if err != nil {
		s.LogError(ctx, err, "Posting validation failed", slog.String("transaction_id", transactionID))
		return nil, err
	}
	commit := domain.PostingCommit{
		TransactionID: transactionID,
		From:          txn.State,
		Entry:         entry,
		PostedBy:      actor.ID,
		PostedAt:      now,
		Audit:         newAuditEntry(domain.EntityTransaction, transactionID, domain.ActionPost, actor, now, nil, "entry "+entry.EntryID),
		OpenPeriods:   []time.Time{entry.EntryDate},
	}
	if err := s.repo.CommitPosting(ctx, commit); err != nil {
		s.LogError(ctx, err, "Failed to commit posting", slog.String("transaction_id", transactionID))
		return nil, err
	}

	txn.State = domain.StatePosted
	txn.PostedBy, txn.PostedAt = actor.ID, &now
	txn.JournalEntryIDs = append(txn.JournalEntryIDs, entry.EntryID)
	txn.LastUpdatedAt, txn.LastUpdatedBy = now, actor.ID
	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", transactionID),
		slog.String("entry_id", entry.EntryID),
		slog.String("fund_id", entry.FundID))
	return txn, nil
}

func (s *transactionService) Reverse(ctx context.Context, transactionID string, reason string, actor domain.Actor) (*domain.Transaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a reversal reason is required", apperrors.ErrValidation)
	}
	txn, err := s.repo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.State == domain.StateReversed {
		entryID := ""
		if txn.Reversal != nil {
			entryID = txn.Reversal.ReversalEntryID
		}
		return nil, &apperrors.AlreadyReversedError{TransactionID: transactionID, ReversalEntryID: entryID}
	}
	step, ok := s.policy.Find(txn.State, domain.StateReversed)
	if !ok {
		return nil, &apperrors.InvalidStateTransitionError{TransactionID: transactionID, From: string(txn.State), To: string(domain.StateReversed)}
	}
	if err := s.checkStep(ctx, step, *txn, actor); err != nil {
		return nil, err
	}

	original, err := s.journal.FindEntryByID(ctx, txn.PostingEntryID())
	if err != nil {
		s.LogError(ctx, err, "Posted transaction has no readable entry", slog.String("transaction_id", transactionID))
		return nil, err
	}
	now := s.Now()
	date := ReversalDate(*original, now)
	if err := s.ensureOpen(ctx, original.EntryDate); err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, date); err != nil {
		return nil, err
	}

	entry, err := BuildReversal(*original, reason, actor.ID, date, now)
	if err != nil {
		return nil, err
	}
	record := domain.ReversalRecord{ReversalEntryID: entry.EntryID, ReversedBy: actor.ID, ReversedAt: now, Reason: reason}
	commit := domain.ReversalCommit{
		TransactionID: transactionID,
		Entry:         entry,
		Record:        record,
		Audit:         newAuditEntry(domain.EntityTransaction, transactionID, domain.ActionReverse, actor, now, nil, reason),
		OpenPeriods:   []time.Time{original.EntryDate, date},
	}
	if err := s.repo.CommitReversal(ctx, commit); err != nil {
		s.LogError(ctx, err, "Failed to commit reversal", slog.String("transaction_id", transactionID))
		return nil, err
	}

	txn.State = domain.StateReversed
	txn.Reversal = &record
	txn.JournalEntryIDs = append(txn.JournalEntryIDs, entry.EntryID)
	txn.LastUpdatedAt, txn.LastUpdatedBy = now, actor.ID
	s.LogInfo(ctx, "Transaction reversed",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_entry_id", entry.EntryID))
	return txn, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.repo.FindTransactionByID(ctx, transactionID)
}

func parseDateParam(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", apperrors.ErrValidation, name)
	}
	return &t, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	from, err := parseDateParam("from", params.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDateParam("to", params.To)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: to must not be before from", apperrors.ErrValidation)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	filter := domain.TransactionFilter{
		Direction: params.Direction,
		State:     params.State,
		FundID:    params.FundID,
		Category:  params.Category,
		From:      from,
		To:        to,
	}
	txns, next, err := s.repo.ListTransactions(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return &dto.ListTransactionsResponse{Transactions: txns, NextToken: next}, nil
}

func (s *transactionService) GetJournalEntries(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	if _, err := s.repo.FindTransactionByID(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.journal.FindEntriesByTransactionID(ctx, transactionID)
}

func (s *transactionService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.journal.FindEntryByID(ctx, entryID)
}

func (s *transactionService) ListAuditTrail(ctx context.Context, transactionID string) ([]domain.AuditEntry, error) {
	if s.audit == nil {
		return nil, errors.New("audit trail is not configured")
	}
	if _, err := s.repo.FindTransactionByID(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.audit.ListAuditEntries(ctx, domain.EntityTransaction, transactionID)
}
