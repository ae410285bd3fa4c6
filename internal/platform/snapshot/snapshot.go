package snapshot

import (
	"fmt"
	"sync"

	"github.com/SlpAus/habit-tracker-backend/internal/archive"
	"github.com/SlpAus/habit-tracker-backend/internal/completion"
	"github.com/SlpAus/habit-tracker-backend/internal/roster"
	"gorm.io/gorm"
)

// Snapshot 是整个数据库的一份完整快照。
// 字段名与导出文件和导入请求体的JSON键一一对应。
type Snapshot struct {
	Users           []roster.User            `json:"users"`
	Tasks           []roster.Task            `json:"tasks"`
	UserTasks       []roster.UserTask        `json:"userTasks"`
	Completions     []completion.Completion  `json:"completions"`
	MonthlyArchives []archive.MonthlyArchive `json:"monthlyArchives"`
}

// Stats 是快照的规模摘要。
type Stats struct {
	Users           int `json:"users"`
	Tasks           int `json:"tasks"`
	UserTasks       int `json:"userTasks"`
	Completions     int `json:"completions"`
	MonthlyArchives int `json:"monthlyArchives"`
}

var snapshotMutex sync.Mutex // 避免导入导出互相撕裂

// Export 读取全部表，生成一份快照。
func Export(db *gorm.DB) (*Snapshot, error) {
	snapshotMutex.Lock()
	defer snapshotMutex.Unlock()

	snap := &Snapshot{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id asc").Find(&snap.Users).Error; err != nil {
			return fmt.Errorf("无法导出用户: %w", err)
		}
		if err := tx.Order("id asc").Find(&snap.Tasks).Error; err != nil {
			return fmt.Errorf("无法导出任务: %w", err)
		}
		if err := tx.Find(&snap.UserTasks).Error; err != nil {
			return fmt.Errorf("无法导出任务分配: %w", err)
		}
		if err := tx.Order("date asc").Find(&snap.Completions).Error; err != nil {
			return fmt.Errorf("无法导出打卡记录: %w", err)
		}
		if err := tx.Order("month asc").Find(&snap.MonthlyArchives).Error; err != nil {
			return fmt.Errorf("无法导出月度归档: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Import 用快照内容整体替换数据库。
// 先清空再写入，整个替换在一个事务中完成；
// 导入完成后重新校准必要任务，防止导入的数据破坏该不变量。
func Import(db *gorm.DB, snap *Snapshot) error {
	snapshotMutex.Lock()
	defer snapshotMutex.Unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		// 1. 清空全部表
		tables := []interface{}{
			&completion.Completion{}, &roster.UserTask{},
			&roster.Task{}, &roster.User{}, &archive.MonthlyArchive{},
		}
		for _, table := range tables {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("无法清空旧数据: %w", err)
			}
		}

		// 2. 写入快照内容
		if len(snap.Users) > 0 {
			if err := tx.Create(&snap.Users).Error; err != nil {
				return fmt.Errorf("无法导入用户: %w", err)
			}
		}
		if len(snap.Tasks) > 0 {
			if err := tx.Create(&snap.Tasks).Error; err != nil {
				return fmt.Errorf("无法导入任务: %w", err)
			}
		}
		if len(snap.UserTasks) > 0 {
			if err := tx.Create(&snap.UserTasks).Error; err != nil {
				return fmt.Errorf("无法导入任务分配: %w", err)
			}
		}
		if len(snap.Completions) > 0 {
			if err := tx.Create(&snap.Completions).Error; err != nil {
				return fmt.Errorf("无法导入打卡记录: %w", err)
			}
		}
		if len(snap.MonthlyArchives) > 0 {
			if err := tx.Create(&snap.MonthlyArchives).Error; err != nil {
				return fmt.Errorf("无法导入月度归档: %w", err)
			}
		}

		// 3. 重新校准必要任务
		return roster.EnsureMandatoryTask(tx)
	})
}

// StatsOf 统计快照的规模。
func StatsOf(snap *Snapshot) Stats {
	return Stats{
		Users:           len(snap.Users),
		Tasks:           len(snap.Tasks),
		UserTasks:       len(snap.UserTasks),
		Completions:     len(snap.Completions),
		MonthlyArchives: len(snap.MonthlyArchives),
	}
}
