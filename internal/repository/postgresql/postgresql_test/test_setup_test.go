package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/wfo-tracker/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated connection to the test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and migrates it. The test is
// skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, postgresql.Migrate(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)

	return setup
}

// TruncateAllTables removes every row from the tracker tables.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, "TRUNCATE TABLE attendance_records")
	return err
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}
