package archive

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/cache"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMonthlyArchives 获取全部月度归档，最新的月份在前
func GetMonthlyArchives(c *gin.Context) {
	archives, err := ListArchives(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取月度归档失败"})
		return
	}
	if archives == nil {
		archives = []MonthlyArchive{}
	}

	c.JSON(http.StatusOK, gin.H{
		"archives":  archives,
		"count":     len(archives),
		"timestamp": time.Now(),
	})
}

// GetMonthlyArchiveByMonth 按"YYYY-MM"键获取单个归档
func GetMonthlyArchiveByMonth(c *gin.Context) {
	month := c.Param("month")
	a, err := GetArchive(database.DB, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("找不到 %s 的归档", month)})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取归档失败"})
		}
		return
	}
	c.JSON(http.StatusOK, a)
}

// CleanDatabase 手动触发一次归档清理
func CleanDatabase(c *gin.Context) {
	fmt.Println("收到手动归档清理请求...")
	result, err := ArchiveAndClean(database.DB, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "归档清理失败"})
		return
	}

	if result.Cleaned {
		cache.Invalidate(cache.StatisticsKey)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"cleaned":            result.Cleaned,
		"reason":             result.Reason,
		"deletedCompletions": result.DeletedCompletions,
		"archiveCreated":     result.ArchiveCreated,
		"archiveMonth":       result.ArchiveMonth,
		"timestamp":          time.Now(),
	})
}
