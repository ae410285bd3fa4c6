package archive

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/cache"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/robfig/cron/v3"
)

// Scheduler 每天在固定时间触发一次归档清理。
// 月中触发时ArchiveAndClean自身会跳过归档，所以每天跑一次是安全的。
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler 创建归档调度器。dailyTime是"HH:MM"格式的本地时间。
func NewScheduler(dailyTime string) (*Scheduler, error) {
	spec, err := buildDailySpec(dailyTime)
	if err != nil {
		return nil, err
	}

	c := cron.New(cron.WithLocation(time.Local), cron.WithSeconds())
	_, err = c.AddFunc(spec, runScheduledCleanup)
	if err != nil {
		return nil, fmt.Errorf("无法注册归档任务: %w", err)
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	fmt.Println("归档调度器已启动。")
}

// Stop 停止调度器，并等待正在执行的任务结束。
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	fmt.Println("归档调度器已停止。")
}

func runScheduledCleanup() {
	fmt.Println("开始执行定时归档清理...")
	result, err := ArchiveAndClean(database.DB, time.Now())
	if err != nil {
		fmt.Printf("定时归档清理失败: %v\n", err)
		return
	}

	if !result.Cleaned {
		fmt.Printf("归档清理已跳过: %s\n", result.Reason)
		return
	}
	if result.ArchiveCreated {
		fmt.Printf("已创建月度归档: %s\n", result.ArchiveMonth)
	}
	fmt.Printf("归档清理完成，删除了 %d 条历史打卡记录。\n", result.DeletedCompletions)
	cache.Invalidate(cache.StatisticsKey)
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("无效的时间 %q，应为HH:MM格式", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("无效的小时: %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("无效的分钟: %q", timeStr)
	}
	// cron格式: 秒 分 时 日 月 周
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
