package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/archive"
	"github.com/SlpAus/habit-tracker-backend/internal/completion"
	"github.com/SlpAus/habit-tracker-backend/internal/roster"
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
	require.NoError(t, db.AutoMigrate(
		&roster.User{}, &roster.Task{}, &roster.UserTask{},
		&completion.Completion{}, &archive.MonthlyArchive{},
	))
	return db
}

func TestExportImportRoundTrip(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, roster.SeedDefaultData(db))
	require.NoError(t, roster.EnsureMandatoryTask(db))
	_, err := completion.UpsertCompletion(db, 1, 1, "2025-08-18", true)
	require.NoError(t, err)
	require.NoError(t, db.Create(&archive.MonthlyArchive{
		Month: "2025-07", Year: 2025, MonthNumber: 7, ArchivedAt: time.Now(),
	}).Error)

	snap, err := Export(db)
	require.NoError(t, err)
	stats := StatsOf(snap)
	assert.Equal(t, 4, stats.Users)
	assert.Equal(t, 1, stats.Tasks)
	assert.Equal(t, 4, stats.UserTasks)
	assert.Equal(t, 1, stats.Completions)
	assert.Equal(t, 1, stats.MonthlyArchives)

	// 导入到一个空库，内容应完全一致
	target := newTestDB(t)
	require.NoError(t, Import(target, snap))

	restored, err := Export(target)
	require.NoError(t, err)
	assert.Equal(t, stats, StatsOf(restored))
	assert.Equal(t, "Cosine", restored.Users[0].Name)
	assert.Equal(t, "2025-08-18", restored.Completions[0].Date)
	assert.Equal(t, "2025-07", restored.MonthlyArchives[0].Month)
}

func TestImportReplacesExistingData(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, roster.SeedDefaultData(db))
	require.NoError(t, roster.EnsureMandatoryTask(db))

	snap := &Snapshot{
		Users: []roster.User{{ID: 1, Name: "Solo", IsAdmin: true}},
		Tasks: []roster.Task{{ID: 1, Name: roster.MandatoryTaskName, IsCommon: true}},
		UserTasks: []roster.UserTask{
			{UserID: 1, TaskID: 1},
		},
	}
	require.NoError(t, Import(db, snap))

	users, err := roster.ListUsers(db)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Solo", users[0].Name)
}

func TestImportReenforcesMandatoryTask(t *testing.T) {
	db := newTestDB(t)

	// 导入的数据中没有必要任务，它必须被补回来并分配给所有用户
	snap := &Snapshot{
		Users: []roster.User{{ID: 1, Name: "Iris"}},
		Tasks: []roster.Task{{ID: 1, Name: "吃藥check"}},
	}
	require.NoError(t, Import(db, snap))

	tasks, err := roster.TasksForUser(db, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, roster.MandatoryTaskName, tasks[0].Name)
}

func TestDefaultSnapshotInvariant(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Import(db, defaultSnapshot()))

	// 每个默认用户都拿到了必要任务
	users, err := roster.ListUsers(db)
	require.NoError(t, err)
	require.Len(t, users, 4)
	for _, u := range users {
		tasks, err := roster.TasksForUser(db, u.ID)
		require.NoError(t, err)
		names := make([]string, 0, len(tasks))
		for _, task := range tasks {
			names = append(names, task.Name)
		}
		assert.Contains(t, names, roster.MandatoryTaskName)
	}
}
