package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// MoneyScale is the number of decimal places the ledger stores (NUMERIC(15,2)).
const MoneyScale int32 = 2

// MaxAmount is the exclusive upper bound of a single amount (13 integer digits).
var MaxAmount = decimal.New(1, 13)

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CalendarDate keeps the calendar date t carries in its own zone, as UTC
// midnight. 2024-03-01T00:30:00+05:30 stays on March 1.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
