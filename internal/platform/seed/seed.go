// Package seed loads the chart of accounts, the fund registry and the posting
// rules from YAML. The default chart is embedded in the binary.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed chart.yaml
var defaultChart []byte

// accountNamespace derives stable account ids from codes, so every store
// seeded from the same file agrees on them.
var accountNamespace = uuid.MustParse("6f1c7a52-4d1e-5a8b-9c3f-2e7d0b4a9f61")

type fundDef struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Kind        domain.FundKind `yaml:"kind"`
	Description string          `yaml:"description"`
}

type accountDef struct {
	Code        string             `yaml:"code"`
	Name        string             `yaml:"name"`
	Type        domain.AccountType `yaml:"type"`
	Fund        string             `yaml:"fund"`
	Parent      string             `yaml:"parent"` // parent account code
	Description string             `yaml:"description"`
}

type chartFile struct {
	Funds      []fundDef                 `yaml:"funds"`
	Accounts   []accountDef              `yaml:"accounts"`
	Categories []domain.CategoryRule      `yaml:"categories"`
	Counter    domain.CounterAccountRules `yaml:"counter"`
}

// Chart is a parsed seed file.
type Chart struct {
	Funds    []domain.Fund
	Accounts []domain.Account
	Rules    domain.PostingRules
}

// AccountID returns the id the seed assigns to the account with code.
func AccountID(code string) string {
	return uuid.NewSHA1(accountNamespace, []byte("account:"+code)).String()
}

// Default parses the embedded chart.
func Default() (*Chart, error) {
	return Parse(defaultChart)
}

// Load reads a chart from path, or the embedded chart when path is empty.
func Load(path string) (*Chart, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chart seed: %w", err)
	}
	return Parse(data)
}

// Parse decodes and cross-checks a chart: every category, counter rule and
// parent must point at an account in the file, and every fund tag at a fund.
func Parse(data []byte) (*Chart, error) {
	var file chartFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode chart seed: %w", err)
	}

	chart := &Chart{}
	funds := make(map[string]domain.Fund, len(file.Funds))
	for _, f := range file.Funds {
		fund := domain.Fund{
			FundID:      strings.ToUpper(f.ID),
			Name:        f.Name,
			Kind:        f.Kind,
			Description: f.Description,
		}
		if fund.FundID == "" || !fund.Kind.IsValid() {
			return nil, fmt.Errorf("fund %q: id and a valid kind are required", f.ID)
		}
		if _, dup := funds[fund.FundID]; dup {
			return nil, fmt.Errorf("duplicate fund %s", fund.FundID)
		}
		funds[fund.FundID] = fund
		chart.Funds = append(chart.Funds, fund)
	}

	accounts := make(map[string]domain.Account, len(file.Accounts))
	for _, a := range file.Accounts {
		if !a.Type.IsValid() {
			return nil, fmt.Errorf("account %s: invalid type %q", a.Code, a.Type)
		}
		if _, dup := accounts[a.Code]; dup {
			return nil, fmt.Errorf("duplicate account code %s", a.Code)
		}
		account := domain.Account{
			AccountID:   AccountID(a.Code),
			Code:        a.Code,
			Name:        a.Name,
			AccountType: a.Type,
			FundID:      strings.ToUpper(a.Fund),
			Description: a.Description,
			IsActive:    true,
		}
		if account.FundID != "" {
			fund, ok := funds[account.FundID]
			if !ok {
				return nil, fmt.Errorf("account %s: unknown fund %s", a.Code, account.FundID)
			}
			if reason := domain.CompatibilityReason(account, fund); reason != "" {
				return nil, fmt.Errorf("account %s: %s", a.Code, reason)
			}
		}
		if a.Parent != "" {
			// parents are listed before their children
			if _, ok := accounts[a.Parent]; !ok {
				return nil, fmt.Errorf("account %s: parent %s must be listed before it", a.Code, a.Parent)
			}
			account.ParentAccountID = AccountID(a.Parent)
		}
		accounts[a.Code] = account
		chart.Accounts = append(chart.Accounts, account)
	}

	for i, r := range file.Categories {
		r.FundID = strings.ToUpper(r.FundID)
		account, ok := accounts[r.AccountCode]
		if !ok {
			return nil, fmt.Errorf("category %s: unknown account code %s", r.Name, r.AccountCode)
		}
		if r.FundID != "" {
			if _, ok := funds[r.FundID]; !ok {
				return nil, fmt.Errorf("category %s: unknown fund %s", r.Name, r.FundID)
			}
		}
		if account.FundID != "" && account.FundID != r.FundID {
			return nil, fmt.Errorf("category %s: account %s is dedicated to fund %s", r.Name, r.AccountCode, account.FundID)
		}
		file.Categories[i] = r
	}
	table, err := domain.NewCategoryTable(file.Categories)
	if err != nil {
		return nil, fmt.Errorf("category table: %w", err)
	}

	counter := file.Counter
	codes := []string{counter.CashAccountCode, counter.DefaultBankCode}
	for fundID, code := range counter.BankAccountsByFund {
		if _, ok := funds[fundID]; !ok {
			return nil, fmt.Errorf("counter rules: unknown fund %s", fundID)
		}
		codes = append(codes, code)
	}
	for _, code := range codes {
		account, ok := accounts[code]
		if !ok {
			return nil, fmt.Errorf("counter rules: unknown account code %q", code)
		}
		if !account.IsCashMovement() {
			return nil, fmt.Errorf("counter rules: account %s is not an asset or liability", code)
		}
	}

	chart.Rules = domain.PostingRules{Categories: table, Counter: counter}
	return chart, nil
}
