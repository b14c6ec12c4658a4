package mapping

import (
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/SscSPs/masjid_treasury/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		ParentAccountID: nullable(d.ParentAccountID),
		FundID:          nullable(d.FundID),
		Description:     nullable(d.Description),
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: deref(m.ParentAccountID),
		FundID:          deref(m.FundID),
		Description:     deref(m.Description),
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelFund converts a domain Fund to a model Fund
func ToModelFund(d domain.Fund) models.Fund {
	return models.Fund{
		FundID:      d.FundID,
		Name:        d.Name,
		Kind:        string(d.Kind),
		Description: nullable(d.Description),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFund converts a model Fund to a domain Fund
func ToDomainFund(m models.Fund) domain.Fund {
	return domain.Fund{
		FundID:      m.FundID,
		Name:        m.Name,
		Kind:        domain.FundKind(m.Kind),
		Description: deref(m.Description),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFundSlice converts fund rows to domain funds.
func ToDomainFundSlice(ms []models.Fund) []domain.Fund {
	ds := make([]domain.Fund, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFund(m)
	}
	return ds
}
