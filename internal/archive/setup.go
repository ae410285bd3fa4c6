package archive

import (
	"fmt"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
)

// PrimeDB 是archive模块的初始化总入口
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&MonthlyArchive{}); err != nil {
		return fmt.Errorf("无法迁移monthly_archive表: %w", err)
	}
	fmt.Println("MonthlyArchive数据库表迁移成功。")
	return nil
}
