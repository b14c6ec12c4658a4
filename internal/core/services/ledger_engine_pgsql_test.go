package services_test

import (
	"context"
	"os"
	"testing"

	portsrepo "github.com/SscSPs/masjid_treasury/internal/core/ports/repositories"
	"github.com/SscSPs/masjid_treasury/internal/repositories/database/pgsql"
	"github.com/SscSPs/masjid_treasury/pkg/database"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const resetTables = `TRUNCATE funds, accounts, transactions, journal_entries, journal_lines,
	audit_log, period_locks, reference_sequences CASCADE;`

// TestLedgerEngineOnPostgres runs the ledger suite against a real database,
// which exercises the row-locked state compare-and-set, the period advisory
// locks and the repeatable-read report snapshot. Every test starts from
// empty tables.
func TestLedgerEngineOnPostgres(t *testing.T) {
	url := os.Getenv("PGSQL_URL")
	if url == "" {
		t.Skip("PGSQL_URL is not set")
	}
	require.NoError(t, database.RunMigrations(url, "file://../../../migrations", database.MigrateUp))

	s := new(LedgerEngineTestSuite)
	s.open = func(string) (portsrepo.RepositoryProvider, func() error) {
		ctx := context.Background()
		pool, err := database.NewPgxPool(ctx, url, true)
		s.Require().NoError(err)
		_, err = pool.Exec(ctx, resetTables)
		s.Require().NoError(err)
		return pgsql.NewRepositoryProvider(pool), func() error {
			pool.Close()
			return nil
		}
	}
	suite.Run(t, s)
}
