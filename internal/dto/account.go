package dto

import (
	"time"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=20"`
	Name            string             `json:"name" binding:"required,max=150"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ParentAccountID string             `json:"parentAccountID"`
	FundID          string             `json:"fundID"` // Optional: dedicate the account to one fund
	Description     string             `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=150"`
	Description *string `json:"description"`
	FundID      *string `json:"fundID"` // only while no journal line references the account
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	NormalSide      domain.Side        `json:"normalSide"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	FundID          string             `json:"fundID,omitempty"`
	Description     string             `json:"description,omitempty"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		NormalSide:      acc.NormalSide(),
		ParentAccountID: acc.ParentAccountID,
		FundID:          acc.FundID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accs []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accs))
	for i := range accs {
		out[i] = ToAccountResponse(&accs[i])
	}
	return out
}

// CreateFundRequest defines the data needed to register a fund.
type CreateFundRequest struct {
	FundID      string          `json:"fundID" binding:"required,uppercase,max=30"`
	Name        string          `json:"name" binding:"required,max=150"`
	Kind        domain.FundKind `json:"kind" binding:"required,oneof=GENERAL RESTRICTED TRUST"`
	Description string          `json:"description"`
}

// FundResponse defines the data returned for a fund.
type FundResponse struct {
	FundID      string          `json:"fundID"`
	Name        string          `json:"name"`
	Kind        domain.FundKind `json:"kind"`
	RingFenced  bool            `json:"ringFenced"`
	Description string          `json:"description,omitempty"`
}

// ToFundResponse converts a domain.Fund to FundResponse DTO
func ToFundResponse(f *domain.Fund) FundResponse {
	return FundResponse{
		FundID:      f.FundID,
		Name:        f.Name,
		Kind:        f.Kind,
		RingFenced:  f.IsRingFenced(),
		Description: f.Description,
	}
}

// ToFundResponses converts a slice of funds.
func ToFundResponses(funds []domain.Fund) []FundResponse {
	out := make([]FundResponse, len(funds))
	for i := range funds {
		out[i] = ToFundResponse(&funds[i])
	}
	return out
}
