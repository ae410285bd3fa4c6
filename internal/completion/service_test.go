package completion

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Completion{}))
	return db
}

func TestUpsertCompletionIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	first, err := UpsertCompletion(db, 1, 1, "2025-08-18", true)
	require.NoError(t, err)
	second, err := UpsertCompletion(db, 1, 1, "2025-08-18", true)
	require.NoError(t, err)

	// 重复打卡不产生新行
	var count int64
	require.NoError(t, db.Model(&Completion{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 34, second.Week)
}

func TestUpsertCompletionUpdatesCompletedInPlace(t *testing.T) {
	db := newTestDB(t)

	first, err := UpsertCompletion(db, 1, 1, "2025-08-18", true)
	require.NoError(t, err)
	assert.True(t, first.Completed)

	// 撤销勾选复用同一行，只翻转completed
	second, err := UpsertCompletion(db, 1, 1, "2025-08-18", false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Completed)

	var count int64
	require.NoError(t, db.Model(&Completion{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUncheckedCompletionExcludedFromRatio(t *testing.T) {
	db := newTestDB(t)

	_, err := UpsertCompletion(db, 1, 1, "2025-08-18", true)
	require.NoError(t, err)
	_, err = UpsertCompletion(db, 1, 1, "2025-08-18", false)
	require.NoError(t, err)

	dates, err := DatesForUserInRange(db, 1, "2025-08-01", "2025-08-31")
	require.NoError(t, err)
	assert.Empty(t, dates)

	// 撤销后的记录不参与完成率计算
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2025, time.August, 21, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 0.0, CompletionRatio(dates, start, end))
}

func TestDatesForUserTaskSkipsUnchecked(t *testing.T) {
	db := newTestDB(t)

	_, err := UpsertCompletion(db, 1, 1, "2025-08-17", true)
	require.NoError(t, err)
	_, err = UpsertCompletion(db, 1, 1, "2025-08-18", false)
	require.NoError(t, err)

	dates, err := DatesForUserTask(db, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-17"}, dates)
}

func TestUpsertCompletionRejectsInvalidDate(t *testing.T) {
	db := newTestDB(t)

	_, err := UpsertCompletion(db, 1, 1, "18/08/2025", true)
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&Completion{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteCompletion(t *testing.T) {
	db := newTestDB(t)

	_, err := UpsertCompletion(db, 1, 1, "2025-08-18", true)
	require.NoError(t, err)
	require.NoError(t, DeleteCompletion(db, 1, 1, "2025-08-18"))

	var count int64
	require.NoError(t, db.Model(&Completion{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCompletionsForUserDefaultsToCurrentMonth(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.August, 22, 10, 0, 0, 0, time.Local)

	for _, date := range []string{"2025-07-31", "2025-08-18", "2025-08-21"} {
		_, err := UpsertCompletion(db, 1, 1, date, true)
		require.NoError(t, err)
	}
	_, err := UpsertCompletion(db, 2, 1, "2025-08-18", true)
	require.NoError(t, err)

	records, err := CompletionsForUser(db, 1, 0, false, now)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-08-18", records[0].Date)
	assert.Equal(t, "2025-08-21", records[1].Date)

	all, err := CompletionsForUser(db, 1, 0, true, now)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCompletionsForUserFiltersByWeek(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, time.August, 22, 10, 0, 0, 0, time.Local)

	// 8/18-8/24 是第34周，8/25 是第35周
	for _, date := range []string{"2025-08-18", "2025-08-24", "2025-08-25"} {
		_, err := UpsertCompletion(db, 1, 1, date, true)
		require.NoError(t, err)
	}

	records, err := CompletionsForUser(db, 1, 34, false, now)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDatesForUserInRange(t *testing.T) {
	db := newTestDB(t)

	// 同一天两个任务都打卡，日期只出现一次
	_, err := UpsertCompletion(db, 1, 1, "2025-08-18", true)
	require.NoError(t, err)
	_, err = UpsertCompletion(db, 1, 2, "2025-08-18", true)
	require.NoError(t, err)
	_, err = UpsertCompletion(db, 1, 1, "2025-09-01", true)
	require.NoError(t, err)

	dates, err := DatesForUserInRange(db, 1, "2025-08-01", "2025-08-31")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-18"}, dates)
}
