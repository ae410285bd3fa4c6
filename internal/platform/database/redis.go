package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是全局的Redis客户端实例，用于统计结果缓存
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis的连接。
// Redis在本系统中只承担缓存职责，连接失败不会阻止应用启动，
// 只会把健康状态标记为不可用，统计接口随之退化为直接查库。
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		fmt.Printf("警告: 无法连接到Redis (%v)，统计缓存将被禁用。\n", err)
		UpdateStatus(false)
		return
	}

	UpdateStatus(true)
	fmt.Println("Redis 连接成功！")
}
