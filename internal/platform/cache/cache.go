package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
)

// StatisticsKey 是年度统计结果在Redis中的缓存键。
const StatisticsKey = "stats:yearly"

// GetJSON 从Redis读取缓存值并反序列化到dest中。
// 返回值表示是否命中；Redis不可用时视为未命中。
func GetJSON(key string, dest interface{}) (bool, error) {
	if !database.IsRedisHealthy() {
		return false, nil
	}

	raw, err := database.RDB.Get(database.Ctx, key).Result()
	if err != nil {
		return false, nil // 未命中或读取失败都走重新计算
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("无法解析缓存内容: %w", err)
	}
	return true, nil
}

// SetJSON 将值序列化后写入Redis，并设置过期时间。
// Redis不可用时静默跳过。
func SetJSON(key string, value interface{}, ttl time.Duration) error {
	if !database.IsRedisHealthy() {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("无法序列化缓存内容: %w", err)
	}
	return database.RDB.Set(database.Ctx, key, raw, ttl).Err()
}

// Invalidate 删除指定的缓存键。数据变更后调用。
// 健康状态标记为不可用时也必须尝试删除：旧的缓存值可能仍在Redis中，
// 一旦连接恢复就会被读到，跳过删除会让它一直存活到TTL过期。
func Invalidate(keys ...string) {
	if database.RDB == nil || len(keys) == 0 {
		return
	}
	if err := database.RDB.Del(database.Ctx, keys...).Err(); err != nil {
		fmt.Printf("警告: 清除缓存失败: %v\n", err)
	}
}
