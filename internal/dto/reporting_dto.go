package dto

import "github.com/SscSPs/masjid_treasury/internal/core/domain"

// AsOfQuery binds the query string of point-in-time reports.
type AsOfQuery struct {
	AsOf   string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
	FundID string `form:"fundID"`
}

// RangeQuery binds the query string of period reports.
type RangeQuery struct {
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	FundID string `form:"fundID"`
}

// DailyBookQuery binds the query string of the daily book.
type DailyBookQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// CategoryResponse is one entry of the category lookup table.
type CategoryResponse struct {
	Direction   domain.Direction `json:"direction"`
	Name        string           `json:"name"`
	AccountCode string           `json:"accountCode"`
	FundID      string           `json:"fundID,omitempty"`
}

// ToCategoryResponses converts category rules for the API.
func ToCategoryResponses(rules []domain.CategoryRule) []CategoryResponse {
	out := make([]CategoryResponse, len(rules))
	for i, r := range rules {
		out[i] = CategoryResponse{Direction: r.Direction, Name: r.Name, AccountCode: r.AccountCode, FundID: r.FundID}
	}
	return out
}

// LockPeriodRequest closes a month to postings.
type LockPeriodRequest struct {
	Year   int    `json:"year" binding:"required,min=2000,max=2100"`
	Month  int    `json:"month" binding:"required,min=1,max=12"`
	Reason string `json:"reason" binding:"max=500"`
}
