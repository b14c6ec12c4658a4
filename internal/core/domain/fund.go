package domain

// FundKind classifies a fund's restrictions.
type FundKind string

const (
	FundGeneral    FundKind = "GENERAL"
	FundRestricted FundKind = "RESTRICTED"
	FundTrust      FundKind = "TRUST"
)

// IsValid reports whether k is a known fund kind.
func (k FundKind) IsValid() bool {
	return k == FundGeneral || k == FundRestricted || k == FundTrust
}

// GeneralFundID is the id of the unrestricted fund in the default chart.
const GeneralFundID = "GENERAL"

// Fund is a pool of money tracked separately in the ledger.
type Fund struct {
	FundID      string   `json:"fundID"`
	Name        string   `json:"name"`
	Kind        FundKind `json:"kind"`
	Description string   `json:"description,omitempty"`
	AuditFields
}

// IsRingFenced reports whether the fund's balance may only move through lines
// tagged with the fund itself. Restricted (e.g. Zakat) and trust (Amanah) funds are.
func (f Fund) IsRingFenced() bool {
	return f.Kind == FundRestricted || f.Kind == FundTrust
}

// CompatibilityReason explains why account cannot carry fund, or returns "" when it can.
func CompatibilityReason(account Account, fund Fund) string {
	if account.FundID != "" && account.FundID != fund.FundID {
		return "account is dedicated to fund " + account.FundID
	}
	if fund.IsRingFenced() {
		switch account.AccountType {
		case Asset, Income, Expense:
		default:
			return "ring-fenced funds may only use asset, income or expense accounts"
		}
	}
	return ""
}

// IsCompatible reports whether lines on account may be tagged with fund.
func IsCompatible(account Account, fund Fund) bool {
	return CompatibilityReason(account, fund) == ""
}
