package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a transaction brings money in or pays it out.
type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// ReferencePrefix is the prefix of receipt (income) and voucher (expense) numbers.
func (d Direction) ReferencePrefix() string {
	if d == DirectionExpense {
		return "EXP"
	}
	return "RCP"
}

// TransactionState is the workflow state of a transaction.
type TransactionState string

const (
	StateDraft    TransactionState = "DRAFT"
	StateVerified TransactionState = "VERIFIED"
	StateApproved TransactionState = "APPROVED"
	StatePosted   TransactionState = "POSTED"
	StateReversed TransactionState = "REVERSED"
)

// IsValid reports whether s is a known state.
func (s TransactionState) IsValid() bool {
	switch s {
	case StateDraft, StateVerified, StateApproved, StatePosted, StateReversed:
		return true
	}
	return false
}

// PaymentMode is how money was received or paid.
type PaymentMode string

const (
	PaymentCash   PaymentMode = "CASH"
	PaymentBank   PaymentMode = "BANK"
	PaymentUPI    PaymentMode = "UPI"
	PaymentCard   PaymentMode = "CARD"
	PaymentCheque PaymentMode = "CHEQUE"
)

// IsValid reports whether m is a known payment mode.
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentCash, PaymentBank, PaymentUPI, PaymentCard, PaymentCheque:
		return true
	}
	return false
}

// Transaction is one income or expense event moving through the approval workflow.
type Transaction struct {
	TransactionID   string           `json:"transactionID"`
	ReferenceNumber string           `json:"referenceNumber"`
	Direction       Direction        `json:"direction"`
	Category        string           `json:"category"`
	Amount          decimal.Decimal  `json:"amount"`
	FundID          string           `json:"fundID"`
	AccountID       string           `json:"accountID"` // counter account (cash, bank)
	PaymentMode     PaymentMode      `json:"paymentMode,omitempty"`
	TransactionDate time.Time        `json:"transactionDate"`
	Description     string           `json:"description"`
	Party           string           `json:"party,omitempty"` // payer or payee
	VoucherRef      string           `json:"voucherRef,omitempty"`
	State           TransactionState `json:"state"`
	VerifiedBy      string           `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time       `json:"verifiedAt,omitempty"`
	ApprovedBy      string           `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time       `json:"approvedAt,omitempty"`
	PostedBy        string           `json:"postedBy,omitempty"`
	PostedAt        *time.Time       `json:"postedAt,omitempty"`
	JournalEntryIDs []string         `json:"journalEntryIDs,omitempty"`
	Reversal        *ReversalRecord  `json:"reversal,omitempty"`
	AuditFields
}

// PostingEntryID returns the id of the entry created when the transaction was posted.
func (t Transaction) PostingEntryID() string {
	if len(t.JournalEntryIDs) == 0 {
		return ""
	}
	return t.JournalEntryIDs[0]
}

// ReversalRecord is kept on a reversed transaction.
type ReversalRecord struct {
	ReversalEntryID string    `json:"reversalEntryID"`
	ReversedBy      string    `json:"reversedBy"`
	ReversedAt      time.Time `json:"reversedAt"`
	Reason          string    `json:"reason"`
}

// TransactionFilter narrows transaction listings. Zero values match everything.
type TransactionFilter struct {
	Direction Direction
	State     TransactionState
	FundID    string
	Category  string
	From      *time.Time
	To        *time.Time
}

// StateChange is a compare-and-set on a transaction's workflow state.
type StateChange struct {
	TransactionID string
	From          TransactionState
	To            TransactionState
	ActorID       string
	At            time.Time
	Audit         AuditEntry
}

// PostingCommit is everything written atomically when a transaction is posted.
type PostingCommit struct {
	TransactionID string
	From          TransactionState
	Entry         JournalEntry
	PostedBy      string
	PostedAt      time.Time
	Audit         AuditEntry
	// OpenPeriods are dates whose month must be unlocked when the commit lands.
	OpenPeriods []time.Time
}

// ReversalCommit is everything written atomically when a posted transaction is reversed.
type ReversalCommit struct {
	TransactionID string
	Entry         JournalEntry
	Record        ReversalRecord
	Audit         AuditEntry
	OpenPeriods   []time.Time
}
