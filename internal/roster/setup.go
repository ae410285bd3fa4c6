package roster

import (
	"fmt"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&User{}, &Task{}, &UserTask{}); err != nil {
		return fmt.Errorf("无法迁移roster相关表: %w", err)
	}
	fmt.Println("User/Task/UserTask数据库表迁移成功。")
	return nil
}

// PrimeDB 是roster模块的初始化总入口：
// 迁移表结构、写入默认数据（如果库为空）、校准必要任务。
func PrimeDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := SeedDefaultData(database.DB); err != nil {
		return err
	}
	if err := EnsureMandatoryTask(database.DB); err != nil {
		return err
	}
	return nil
}
