package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAttendanceRepository_UpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()

	created := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	_, err := repo.Upsert(ctx, attendance.AttendanceRecord{
		Date: day(2025, 3, 3), IsPresent: true, RecordType: attendance.RecordTypeAuto,
		WorkMode: attendance.WorkModeWFH, CreatedAt: created, UpdatedAt: created,
	})
	require.NoError(t, err)

	updated := created.Add(2 * time.Hour)
	saved, err := repo.Upsert(ctx, attendance.AttendanceRecord{
		Date: day(2025, 3, 3), IsPresent: true, RecordType: attendance.RecordTypeAuto,
		WorkMode: attendance.WorkModeWFO, CreatedAt: updated, UpdatedAt: updated,
	})
	require.NoError(t, err)
	assert.Equal(t, created, saved.CreatedAt)
	assert.Equal(t, updated, saved.UpdatedAt)

	got, err := repo.GetByDate(ctx, day(2025, 3, 3))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, attendance.WorkModeWFO, got.WorkMode)
}

func TestAttendanceRepository_GetMissingReturnsNil(t *testing.T) {
	repo := NewAttendanceRepository()

	got, err := repo.GetByDate(context.Background(), day(2025, 3, 3))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttendanceRepository_ListInRangeOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository()

	for _, d := range []int{12, 3, 31, 7} {
		_, err := repo.Upsert(ctx, attendance.AttendanceRecord{Date: day(2025, 3, d), WorkMode: attendance.WorkModeWFO})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, attendance.AttendanceRecord{Date: day(2025, 4, 1), WorkMode: attendance.WorkModeWFO})
	require.NoError(t, err)

	records, err := repo.ListInRange(ctx, day(2025, 3, 1), day(2025, 3, 31))
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, 3, records[0].Date.Day())
	assert.Equal(t, 7, records[1].Date.Day())
	assert.Equal(t, 12, records[2].Date.Day())
	assert.Equal(t, 31, records[3].Date.Day())
}

func TestAttendanceRepository_DeleteMissingIsNoop(t *testing.T) {
	repo := NewAttendanceRepository()
	assert.NoError(t, repo.DeleteByDate(context.Background(), day(2025, 3, 3)))
}
