package domain

import (
	"fmt"
	"time"
)

// AuditAction names what happened to an entity.
type AuditAction string

const (
	ActionCreate     AuditAction = "CREATE"
	ActionUpdate     AuditAction = "UPDATE"
	ActionDeactivate AuditAction = "DEACTIVATE"
	ActionVerify     AuditAction = "VERIFY"
	ActionApprove    AuditAction = "APPROVE"
	ActionPost       AuditAction = "POST"
	ActionReverse    AuditAction = "REVERSE"
	ActionLock       AuditAction = "LOCK"
	ActionUnlock     AuditAction = "UNLOCK"
)

// Entity types recorded in the audit log.
const (
	EntityTransaction = "transaction"
	EntityAccount     = "account"
	EntityFund        = "fund"
	EntityPeriodLock  = "period_lock"
)

// AuditEntry is an append-only record of a change.
type AuditEntry struct {
	AuditID    string      `json:"auditID"`
	EntityType string      `json:"entityType"`
	EntityID   string      `json:"entityID"`
	Action     AuditAction `json:"action"`
	ActorID    string      `json:"actorID"`
	At         time.Time   `json:"at"`
	OldValue   string      `json:"oldValue,omitempty"`
	NewValue   string      `json:"newValue,omitempty"`
	Remarks    string      `json:"remarks,omitempty"`
}

// PeriodLock closes a calendar month to new postings and reversals.
type PeriodLock struct {
	Year     int       `json:"year"`
	Month    int       `json:"month"`
	Reason   string    `json:"reason,omitempty"`
	LockedBy string    `json:"lockedBy"`
	LockedAt time.Time `json:"lockedAt"`
}

// Key is the canonical "YYYY-MM" id of the locked period.
func (p PeriodLock) Key() string {
	return PeriodKey(p.Year, p.Month)
}

// PeriodKey formats a year and month as "YYYY-MM".
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// DistinctPeriods returns the months of dates, in order, without repeats.
func DistinctPeriods(dates []time.Time) [][2]int {
	seen := make(map[[2]int]bool, len(dates))
	out := make([][2]int, 0, len(dates))
	for _, d := range dates {
		y, m := PeriodOf(d)
		p := [2]int{y, m}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// PeriodOf returns the calendar year and month of t in UTC.
func PeriodOf(t time.Time) (int, int) {
	u := t.UTC()
	return u.Year(), int(u.Month())
}
