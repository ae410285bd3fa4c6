package roster

import (
	"path/filepath"
	"testing"

	"github.com/SlpAus/habit-tracker-backend/internal/completion"
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
	require.NoError(t, db.AutoMigrate(&User{}, &Task{}, &UserTask{}, &completion.Completion{}))
	return db
}

func TestEnsureMandatoryTaskCreatesAndAssigns(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&[]User{{Name: "Cosine", IsAdmin: true}, {Name: "Iris"}}).Error)

	require.NoError(t, EnsureMandatoryTask(db))

	var task Task
	require.NoError(t, db.Where("name = ?", MandatoryTaskName).First(&task).Error)
	assert.True(t, task.IsCommon)

	var assignments int64
	require.NoError(t, db.Model(&UserTask{}).Where("task_id = ?", task.ID).Count(&assignments).Error)
	assert.EqualValues(t, 2, assignments)
}

func TestEnsureMandatoryTaskIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&User{Name: "Cosine", IsAdmin: true}).Error)

	require.NoError(t, EnsureMandatoryTask(db))
	require.NoError(t, EnsureMandatoryTask(db))

	var tasks int64
	require.NoError(t, db.Model(&Task{}).Where("name = ?", MandatoryTaskName).Count(&tasks).Error)
	assert.EqualValues(t, 1, tasks)

	var assignments int64
	require.NoError(t, db.Model(&UserTask{}).Count(&assignments).Error)
	assert.EqualValues(t, 1, assignments)
}

func TestDeleteTaskRefusesMandatoryTask(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&User{Name: "Cosine", IsAdmin: true}).Error)
	require.NoError(t, EnsureMandatoryTask(db))

	var task Task
	require.NoError(t, db.Where("name = ?", MandatoryTaskName).First(&task).Error)

	err := DeleteTask(db, task.ID)
	assert.ErrorIs(t, err, ErrMandatoryTask)

	// 任务必须原样保留
	var count int64
	require.NoError(t, db.Model(&Task{}).Where("id = ?", task.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteTaskCascades(t *testing.T) {
	db := newTestDB(t)
	user, err := CreateUser(db, "Iris", false)
	require.NoError(t, err)

	require.NoError(t, db.Create(&Task{Name: "吃藥check"}).Error)
	var task Task
	require.NoError(t, db.Where("name = ?", "吃藥check").First(&task).Error)
	require.NoError(t, AssignTask(db, user.ID, task.ID))
	_, err = completion.UpsertCompletion(db, user.ID, task.ID, "2025-08-18", true)
	require.NoError(t, err)

	require.NoError(t, DeleteTask(db, task.ID))

	var assignments, completions int64
	require.NoError(t, db.Model(&UserTask{}).Count(&assignments).Error)
	require.NoError(t, db.Model(&completion.Completion{}).Count(&completions).Error)
	assert.EqualValues(t, 0, assignments)
	assert.EqualValues(t, 0, completions)
}

func TestCreateTaskRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	admin, err := CreateUser(db, "Cosine", true)
	require.NoError(t, err)
	member, err := CreateUser(db, "Anna", false)
	require.NoError(t, err)

	_, err = CreateTask(db, member.ID, "每日保健品", false)
	assert.ErrorIs(t, err, ErrNotAdmin)

	task, err := CreateTask(db, admin.ID, "每日保健品", false)
	require.NoError(t, err)
	assert.Equal(t, "每日保健品", task.Name)
}

func TestCreateCommonTaskAssignsToAllUsers(t *testing.T) {
	db := newTestDB(t)
	admin, err := CreateUser(db, "Cosine", true)
	require.NoError(t, err)
	_, err = CreateUser(db, "Iris", false)
	require.NoError(t, err)

	task, err := CreateTask(db, admin.ID, "晨間伸展", true)
	require.NoError(t, err)

	var assignments int64
	require.NoError(t, db.Model(&UserTask{}).Where("task_id = ?", task.ID).Count(&assignments).Error)
	assert.EqualValues(t, 2, assignments)
}

func TestCreateUserInheritsCommonTasks(t *testing.T) {
	db := newTestDB(t)
	admin, err := CreateUser(db, "Cosine", true)
	require.NoError(t, err)
	_, err = CreateTask(db, admin.ID, MandatoryTaskName, true)
	require.NoError(t, err)

	user, err := CreateUser(db, "Rita", false)
	require.NoError(t, err)

	tasks, err := TasksForUser(db, user.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, MandatoryTaskName, tasks[0].Name)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	admin, err := CreateUser(db, "Cosine", true)
	require.NoError(t, err)
	task, err := CreateTask(db, admin.ID, "每日保健品", false)
	require.NoError(t, err)
	require.NoError(t, AssignTask(db, admin.ID, task.ID))
	_, err = completion.UpsertCompletion(db, admin.ID, task.ID, "2025-08-18", true)
	require.NoError(t, err)

	require.NoError(t, DeleteUser(db, admin.ID))

	var users, assignments, completions int64
	require.NoError(t, db.Model(&User{}).Count(&users).Error)
	require.NoError(t, db.Model(&UserTask{}).Count(&assignments).Error)
	require.NoError(t, db.Model(&completion.Completion{}).Count(&completions).Error)
	assert.EqualValues(t, 0, users)
	assert.EqualValues(t, 0, assignments)
	assert.EqualValues(t, 0, completions)
}

func TestSeedDefaultDataOnlyWhenEmpty(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedDefaultData(db))
	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	// 已有数据时不再写入
	require.NoError(t, SeedDefaultData(db))
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}
