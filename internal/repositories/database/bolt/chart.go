package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/models"
	"github.com/SscSPs/masjid_treasury/internal/utils/mapping"
	bbolt "go.etcd.io/bbolt"
)

type chartRepository struct {
	store *Store
}

var _ portsrepo.ChartRepositoryFacade = (*chartRepository)(nil)

func loadAccount(tx *bbolt.Tx, accountID string) (*models.Account, error) {
	var m models.Account
	found, err := getJSON(tx.Bucket([]byte(bucketAccounts)), accountID, &m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("account", accountID)
	}
	return &m, nil
}

func (r *chartRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var account domain.Account
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		m, err := loadAccount(tx, accountID)
		if err != nil {
			return err
		}
		account = mapping.ToDomainAccount(*m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *chartRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	var account domain.Account
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket([]byte(bucketAccountCodes)).Get([]byte(code))
		if id == nil {
			return apperrors.NewNotFoundError("account", code)
		}
		m, err := loadAccount(tx, string(id))
		if err != nil {
			return err
		}
		account = mapping.ToDomainAccount(*m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// listAccounts walks the code index, so accounts come out ordered by code.
func listAccounts(tx *bbolt.Tx) ([]models.Account, error) {
	var out []models.Account
	err := tx.Bucket([]byte(bucketAccountCodes)).ForEach(func(_, id []byte) error {
		m, err := loadAccount(tx, string(id))
		if err != nil {
			return err
		}
		out = append(out, *m)
		return nil
	})
	return out, err
}

func (r *chartRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var rows []models.Account
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		var err error
		rows, err = listAccounts(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(rows), nil
}

func (r *chartRepository) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	used := false
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccountLines)).Bucket([]byte(accountID))
		if b != nil {
			k, _ := b.Cursor().First()
			used = k != nil
		}
		return nil
	})
	return used, err
}

func (r *chartRepository) SaveAccount(ctx context.Context, account domain.Account, audit domain.AuditEntry) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		accounts := tx.Bucket([]byte(bucketAccounts))
		codes := tx.Bucket([]byte(bucketAccountCodes))
		if accounts.Get([]byte(account.AccountID)) != nil {
			return fmt.Errorf("%w: account id %s", apperrors.ErrDuplicate, account.AccountID)
		}
		if codes.Get([]byte(account.Code)) != nil {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
		if err := putJSON(accounts, account.AccountID, mapping.ToModelAccount(account)); err != nil {
			return err
		}
		if err := codes.Put([]byte(account.Code), []byte(account.AccountID)); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}

func (r *chartRepository) UpdateAccount(ctx context.Context, account domain.Account, audit domain.AuditEntry) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		existing, err := loadAccount(tx, account.AccountID)
		if err != nil {
			return err
		}
		codes := tx.Bucket([]byte(bucketAccountCodes))
		if existing.Code != account.Code {
			if codes.Get([]byte(account.Code)) != nil {
				return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
			}
			if err := codes.Delete([]byte(existing.Code)); err != nil {
				return err
			}
			if err := codes.Put([]byte(account.Code), []byte(account.AccountID)); err != nil {
				return err
			}
		}
		m := mapping.ToModelAccount(account)
		m.CreatedAt, m.CreatedBy = existing.CreatedAt, existing.CreatedBy
		if err := putJSON(tx.Bucket([]byte(bucketAccounts)), account.AccountID, m); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}

func (r *chartRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time, audit domain.AuditEntry) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		m, err := loadAccount(tx, accountID)
		if err != nil {
			return err
		}
		m.IsActive = false
		m.LastUpdatedAt = now
		m.LastUpdatedBy = userID
		if err := putJSON(tx.Bucket([]byte(bucketAccounts)), accountID, m); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}

func (r *chartRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	var fund domain.Fund
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		var m models.Fund
		found, err := getJSON(tx.Bucket([]byte(bucketFunds)), fundID, &m)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewNotFoundError("fund", fundID)
		}
		fund = mapping.ToDomainFund(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fund, nil
}

func listFunds(tx *bbolt.Tx) ([]models.Fund, error) {
	var out []models.Fund
	err := tx.Bucket([]byte(bucketFunds)).ForEach(func(k, v []byte) error {
		var m models.Fund
		if err := json.Unmarshal(v, &m); err != nil {
			return fmt.Errorf("failed to decode fund %s: %w", k, err)
		}
		out = append(out, m)
		return nil
	})
	return out, err
}

func (r *chartRepository) ListFunds(ctx context.Context) ([]domain.Fund, error) {
	var rows []models.Fund
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		var err error
		rows, err = listFunds(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainFundSlice(rows), nil
}

func (r *chartRepository) SaveFund(ctx context.Context, fund domain.Fund, audit domain.AuditEntry) error {
	return r.store.db.Update(func(tx *bbolt.Tx) error {
		funds := tx.Bucket([]byte(bucketFunds))
		if funds.Get([]byte(fund.FundID)) != nil {
			return fmt.Errorf("%w: fund %s", apperrors.ErrDuplicate, fund.FundID)
		}
		if err := putJSON(funds, fund.FundID, mapping.ToModelFund(fund)); err != nil {
			return err
		}
		return appendAudit(tx, audit)
	})
}
