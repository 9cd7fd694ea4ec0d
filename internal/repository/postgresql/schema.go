package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS attendance_records (
	date        DATE PRIMARY KEY,
	is_present  BOOLEAN NOT NULL DEFAULT TRUE,
	record_type VARCHAR(10) NOT NULL CHECK (record_type IN ('AUTO', 'MANUAL')),
	work_mode   VARCHAR(10) NOT NULL CHECK (work_mode IN ('WFO', 'WFH', 'LEAVE')),
	location    VARCHAR(255),
	note        TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
