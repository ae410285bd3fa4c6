package health

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/SlpAus/habit-tracker-backend/pkg/lifecycle"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

// PerformCheck 执行一次完整的Redis健康检查并更新全局状态。
// Redis只承载可丢弃的统计缓存，所以检查失败不触发任何修复动作，
// 只是把状态降级，让缓存读写被跳过。
func PerformCheck() {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()

	if err := database.RDB.Ping(ctx).Err(); err != nil {
		database.UpdateStatus(false)
		return
	}
	database.UpdateStatus(true)
}

// StartRedisHealthCheck 启动一个后台Goroutine来定期执行健康检查。
func StartRedisHealthCheck(handle *lifecycle.Handle) {
	defer handle.Close()
	fmt.Println("Redis健康检查器已启动。")

	for {
		if err := handle.Sleep(checkInterval); err != nil {
			fmt.Println("健康检查器: 收到停机信号，正在关闭...")
			return
		}
		PerformCheck()
	}
}
