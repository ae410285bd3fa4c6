package health

import (
	"net/http"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/archive"
	"github.com/SlpAus/habit-tracker-backend/internal/completion"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/SlpAus/habit-tracker-backend/internal/roster"
	"github.com/gin-gonic/gin"
)

// GetHealth 返回服务的健康状况和各实体的数量概览。
// Redis只是缓存层，它不可用时服务仍然是healthy，只是降级。
func GetHealth(c *gin.Context) {
	redisHealthy := database.IsRedisHealthy()

	status := "healthy"
	if !redisHealthy {
		status = "degraded"
	}

	var users, tasks, completions, archives int64
	database.DB.Model(&roster.User{}).Count(&users)
	database.DB.Model(&roster.Task{}).Count(&tasks)
	database.DB.Model(&completion.Completion{}).Count(&completions)
	database.DB.Model(&archive.MonthlyArchive{}).Count(&archives)

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"redis":     redisHealthy,
		"timestamp": time.Now(),
		"counts": gin.H{
			"users":           users,
			"tasks":           tasks,
			"completions":     completions,
			"monthlyArchives": archives,
		},
	})
}
