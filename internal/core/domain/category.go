package domain

import (
	"fmt"
	"sort"
)

// CategoryRule maps an income or expense category to the account it posts to.
// FundID, when set, is the only fund the category may be recorded against.
type CategoryRule struct {
	Direction   Direction `json:"direction" yaml:"direction"`
	Name        string    `json:"name" yaml:"name"`
	AccountCode string    `json:"accountCode" yaml:"account"`
	FundID      string    `json:"fundID,omitempty" yaml:"fund"`
}

type categoryKey struct {
	direction Direction
	name      string
}

// CategoryTable is the lookup table of allowed categories per direction.
type CategoryTable struct {
	rules map[categoryKey]CategoryRule
}

// NewCategoryTable builds a table, rejecting duplicate or malformed rules.
func NewCategoryTable(rules []CategoryRule) (*CategoryTable, error) {
	t := &CategoryTable{rules: make(map[categoryKey]CategoryRule, len(rules))}
	for _, r := range rules {
		if !r.Direction.IsValid() {
			return nil, fmt.Errorf("category %q: unknown direction %q", r.Name, r.Direction)
		}
		if r.Name == "" || r.AccountCode == "" {
			return nil, fmt.Errorf("category rule for %s needs a name and an account code", r.Direction)
		}
		k := categoryKey{r.Direction, r.Name}
		if _, dup := t.rules[k]; dup {
			return nil, fmt.Errorf("duplicate %s category %q", r.Direction, r.Name)
		}
		t.rules[k] = r
	}
	return t, nil
}

// Lookup returns the rule for a category, if any.
func (t *CategoryTable) Lookup(direction Direction, name string) (CategoryRule, bool) {
	r, ok := t.rules[categoryKey{direction, name}]
	return r, ok
}

// List returns the rules for one direction sorted by name. An empty direction lists all.
func (t *CategoryTable) List(direction Direction) []CategoryRule {
	out := make([]CategoryRule, 0, len(t.rules))
	for k, r := range t.rules {
		if direction == "" || k.direction == direction {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Direction != out[j].Direction {
			return out[i].Direction < out[j].Direction
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CounterAccountRules choose the cash or bank account for a payment mode.
type CounterAccountRules struct {
	CashAccountCode    string            `yaml:"cash"`
	DefaultBankCode    string            `yaml:"default_bank"`
	BankAccountsByFund map[string]string `yaml:"bank_by_fund"`
}

// Resolve returns the account code that receives (or pays) money for the mode and fund.
func (r CounterAccountRules) Resolve(mode PaymentMode, fundID string) string {
	if mode == PaymentCash {
		return r.CashAccountCode
	}
	if code, ok := r.BankAccountsByFund[fundID]; ok {
		return code
	}
	return r.DefaultBankCode
}

// PostingRules bundle the lookup tables the posting engine needs.
type PostingRules struct {
	Categories *CategoryTable
	Counter    CounterAccountRules
}
