package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是全局的GORM数据库实例，作为整个系统的持久化主存储
var DB *gorm.DB

// InitDB 初始化SQLite数据库连接
func InitDB(cfg config.SqliteConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 生产环境保持Silent
			Colorful:      true,
		},
	)

	// SQLite数据库文件的父目录可能还不存在
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			panic(fmt.Sprintf("无法创建数据库目录 %s: %v", dir, err))
		}
	}

	DB, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: newLogger,
	})

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}
