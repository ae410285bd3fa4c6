package completion

import (
	"fmt"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
)

// PrimeDB 是completion模块的初始化总入口
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Completion{}); err != nil {
		return fmt.Errorf("无法迁移completion表: %w", err)
	}
	fmt.Println("Completion数据库表迁移成功。")
	return nil
}
