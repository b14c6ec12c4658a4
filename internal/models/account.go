package models

import "time"

// AuditFields holds the audit columns shared by most tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	CreatedBy     string    `db:"created_by" json:"createdBy"`
	LastUpdatedAt time.Time `db:"last_updated_at" json:"lastUpdatedAt"`
	LastUpdatedBy string    `db:"last_updated_by" json:"lastUpdatedBy"`
}

// Account is a row of the accounts table.
type Account struct {
	AccountID       string  `db:"account_id" json:"accountID"`
	Code            string  `db:"code" json:"code"`
	Name            string  `db:"name" json:"name"`
	AccountType     string  `db:"account_type" json:"accountType"`
	ParentAccountID *string `db:"parent_account_id" json:"parentAccountID,omitempty"` // Nullable
	FundID          *string `db:"fund_id" json:"fundID,omitempty"`                    // Nullable
	Description     *string `db:"description" json:"description,omitempty"`
	IsActive        bool    `db:"is_active" json:"isActive"`
	AuditFields
}

// Fund is a row of the funds table.
type Fund struct {
	FundID      string  `db:"fund_id" json:"fundID"`
	Name        string  `db:"name" json:"name"`
	Kind        string  `db:"kind" json:"kind"`
	Description *string `db:"description" json:"description,omitempty"`
	AuditFields
}
