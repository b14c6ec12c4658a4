package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal marks infrastructure failures (database, storage) that callers cannot act on.
var ErrInternal = errors.New("internal error")

// Ledger engine sentinels. Every typed error below matches exactly one of them via errors.Is.
var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrSelfVerification       = errors.New("creator may not review their own transaction")
	ErrInsufficientRole       = errors.New("actor lacks the required capability")
	ErrUnbalancedEntry        = errors.New("journal entry does not balance")
	ErrFundMismatch           = errors.New("fund mismatch")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrAlreadyReversed        = errors.New("transaction already reversed")
	ErrPeriodLocked           = errors.New("accounting period is locked")
)

// AppError wraps an infrastructure failure with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInternal) match any 5xx AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NotFoundError reports an unknown account, fund, transaction or entry id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError returns a NotFoundError for the given entity and id.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidStateTransitionError is returned for out-of-sequence workflow transitions,
// and to the loser of two concurrent post or reverse attempts.
type InvalidStateTransitionError struct {
	TransactionID string
	From          string
	To            string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("transaction %s: cannot move from %s to %s", e.TransactionID, e.From, e.To)
}

func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// SelfVerificationError enforces the four-eyes rule.
type SelfVerificationError struct {
	TransactionID string
	ActorID       string
	Step          string
}

func (e *SelfVerificationError) Error() string {
	return fmt.Sprintf("transaction %s: actor %s created it and cannot perform %s", e.TransactionID, e.ActorID, e.Step)
}

func (e *SelfVerificationError) Is(target error) bool { return target == ErrSelfVerification }

// InsufficientRoleError is returned when the actor holds none of the required capabilities.
type InsufficientRoleError struct {
	ActorID  string
	Action   string
	Required []string
}

func (e *InsufficientRoleError) Error() string {
	return fmt.Sprintf("actor %s cannot %s: requires one of %v", e.ActorID, e.Action, e.Required)
}

func (e *InsufficientRoleError) Is(target error) bool { return target == ErrInsufficientRole }

// UnbalancedEntryError reports a journal entry whose debits and credits differ,
// either overall (FundID empty) or within a single ring-fenced fund.
type UnbalancedEntryError struct {
	EntryID string
	FundID  string
	Debit   string
	Credit  string
}

func (e *UnbalancedEntryError) Error() string {
	if e.FundID != "" {
		return fmt.Sprintf("entry %s: fund %s debits %s != credits %s", e.EntryID, e.FundID, e.Debit, e.Credit)
	}
	return fmt.Sprintf("entry %s: debits %s != credits %s", e.EntryID, e.Debit, e.Credit)
}

func (e *UnbalancedEntryError) Is(target error) bool { return target == ErrUnbalancedEntry }

// FundMismatchError is returned when an account cannot carry the given fund,
// or a category implies a different fund than the one requested.
type FundMismatchError struct {
	AccountID string
	FundID    string
	Reason    string
}

func (e *FundMismatchError) Error() string {
	if e.AccountID == "" {
		return fmt.Sprintf("fund %s: %s", e.FundID, e.Reason)
	}
	return fmt.Sprintf("account %s is not compatible with fund %s: %s", e.AccountID, e.FundID, e.Reason)
}

func (e *FundMismatchError) Is(target error) bool { return target == ErrFundMismatch }

// InvalidAmountError is returned for non-positive amounts or amounts that the
// ledger's fixed-point precision cannot hold exactly.
type InvalidAmountError struct {
	Amount string
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("amount %s: %s", e.Amount, e.Reason)
}

func (e *InvalidAmountError) Is(target error) bool { return target == ErrInvalidAmount }

// AlreadyReversedError is returned when reversing a transaction a second time.
type AlreadyReversedError struct {
	TransactionID   string
	ReversalEntryID string
}

func (e *AlreadyReversedError) Error() string {
	return fmt.Sprintf("transaction %s already reversed by entry %s", e.TransactionID, e.ReversalEntryID)
}

func (e *AlreadyReversedError) Is(target error) bool { return target == ErrAlreadyReversed }

// PeriodLockedError is returned when posting into, or reversing out of, a locked month.
type PeriodLockedError struct {
	Year  int
	Month int
}

func (e *PeriodLockedError) Error() string {
	return fmt.Sprintf("period %04d-%02d is locked", e.Year, e.Month)
}

func (e *PeriodLockedError) Is(target error) bool { return target == ErrPeriodLocked }
