package stats

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/archive"
	"github.com/SlpAus/habit-tracker-backend/internal/completion"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/cache"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/config"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/SlpAus/habit-tracker-backend/internal/roster"
	"github.com/SlpAus/habit-tracker-backend/pkg/calendar"
	"github.com/gin-gonic/gin"
)

func thresholdsFromConfig() Thresholds {
	return Thresholds{
		ComboReward:   config.Cfg.Stats.ComboRewardThreshold,
		Encouragement: config.Cfg.Stats.EncouragementThreshold,
	}
}

// GetStatistics 获取按月汇总的年度统计。
// 结果带Redis缓存，任何数据变更都会使缓存失效。
func GetStatistics(c *gin.Context) {
	var cached []MonthSummary
	hit, err := cache.GetJSON(cache.StatisticsKey, &cached)
	if err == nil && hit {
		c.JSON(http.StatusOK, cached)
		return
	}

	now := time.Now()
	db := database.DB

	users, err := roster.ListUsers(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取统计数据失败"})
		return
	}
	tasks, err := roster.ListTasks(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取统计数据失败"})
		return
	}
	userTasks, err := roster.ListUserTasks(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取统计数据失败"})
		return
	}
	var completions []completion.Completion
	if err := db.Find(&completions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取统计数据失败"})
		return
	}
	archives, err := archive.ListArchives(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取统计数据失败"})
		return
	}

	summaries := YearlyStatistics(users, tasks, userTasks, completions, archives, now, thresholdsFromConfig())

	if err := cache.SetJSON(cache.StatisticsKey, summaries, config.Cfg.Stats.CacheTTL()); err != nil {
		fmt.Printf("警告: 写入统计缓存失败: %v\n", err)
	}
	c.JSON(http.StatusOK, summaries)
}

// GetStreak 获取用户在某任务上截至今天的连击天数
func GetStreak(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的userId参数"})
		return
	}
	taskID, err := strconv.ParseUint(c.Query("taskId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的taskId参数"})
		return
	}

	dates, err := completion.DatesForUserTask(database.DB, uint(userID), uint(taskID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取连击数据失败"})
		return
	}

	streak := completion.CurrentStreak(dates, time.Now())
	c.JSON(http.StatusOK, gin.H{
		"userId":       uint(userID),
		"taskId":       uint(taskID),
		"streak":       streak,
		"rewardEarned": streak > config.Cfg.Stats.ComboRewardThreshold,
	})
}

// GetWeeklyProgress 获取全体用户本周的打卡记录
func GetWeeklyProgress(c *gin.Context) {
	db := database.DB
	now := time.Now()

	users, err := roster.ListUsers(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取周进度失败"})
		return
	}

	weekStart, weekEnd := calendar.WeekBounds(now)
	completions, err := completion.CompletionsForWeek(db, calendar.ISOWeekNumber(now),
		calendar.LocalDateString(weekStart), calendar.LocalDateString(weekEnd))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取周进度失败"})
		return
	}

	c.JSON(http.StatusOK, WeeklyProgressFor(users, completions, now))
}
