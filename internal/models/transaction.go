package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID   string          `db:"transaction_id" json:"transactionID"`
	ReferenceNumber string          `db:"reference_number" json:"referenceNumber"`
	Direction       string          `db:"direction" json:"direction"`
	Category        string          `db:"category" json:"category"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	FundID          string          `db:"fund_id" json:"fundID"`
	AccountID       string          `db:"account_id" json:"accountID"`
	PaymentMode     *string         `db:"payment_mode" json:"paymentMode,omitempty"`
	TransactionDate time.Time       `db:"transaction_date" json:"transactionDate"`
	Description     string          `db:"description" json:"description"`
	Party           *string         `db:"party" json:"party,omitempty"`
	VoucherRef      *string         `db:"voucher_ref" json:"voucherRef,omitempty"`
	State           string          `db:"state" json:"state"`
	VerifiedBy      *string         `db:"verified_by" json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time      `db:"verified_at" json:"verifiedAt,omitempty"`
	ApprovedBy      *string         `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `db:"approved_at" json:"approvedAt,omitempty"`
	PostedBy        *string         `db:"posted_by" json:"postedBy,omitempty"`
	PostedAt        *time.Time      `db:"posted_at" json:"postedAt,omitempty"`
	JournalEntryIDs []string        `db:"journal_entry_ids" json:"journalEntryIDs,omitempty"`
	ReversalEntryID *string         `db:"reversal_entry_id" json:"reversalEntryID,omitempty"`
	ReversedBy      *string         `db:"reversed_by" json:"reversedBy,omitempty"`
	ReversedAt      *time.Time      `db:"reversed_at" json:"reversedAt,omitempty"`
	ReversalReason  *string         `db:"reversal_reason" json:"reversalReason,omitempty"`
	AuditFields
}

// AuditLog is a row of the audit_log table.
type AuditLog struct {
	AuditID    string    `db:"audit_id" json:"auditID"`
	EntityType string    `db:"entity_type" json:"entityType"`
	EntityID   string    `db:"entity_id" json:"entityID"`
	Action     string    `db:"action" json:"action"`
	ActorID    string    `db:"actor_id" json:"actorID"`
	At         time.Time `db:"at" json:"at"`
	OldValue   *string   `db:"old_value" json:"oldValue,omitempty"`
	NewValue   *string   `db:"new_value" json:"newValue,omitempty"`
	Remarks    *string   `db:"remarks" json:"remarks,omitempty"`
}

// PeriodLock is a row of the period_locks table.
type PeriodLock struct {
	Year     int       `db:"year" json:"year"`
	Month    int       `db:"month" json:"month"`
	Reason   *string   `db:"reason" json:"reason,omitempty"`
	LockedBy string    `db:"locked_by" json:"lockedBy"`
	LockedAt time.Time `db:"locked_at" json:"lockedAt"`
}
