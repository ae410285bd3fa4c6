package completion

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/cache"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
)

type completionBody struct {
	UserID uint   `json:"userId" binding:"required"`
	TaskID uint   `json:"taskId" binding:"required"`
	Date   string `json:"date" binding:"required"`
	// 指针用于区分"未提供"和"撤销勾选(false)"
	Completed *bool `json:"completed" binding:"required"`
}

type completionKeyBody struct {
	UserID uint   `json:"userId" binding:"required"`
	TaskID uint   `json:"taskId" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

// GetCompletionsByUser 获取用户的打卡记录。
// 可选查询参数：week（ISO周序号）、all=true（包含历史月份）。
func GetCompletionsByUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的userId参数"})
		return
	}

	// 周参数必须是整数，否则忽略
	week := 0
	if rawWeek := c.Query("week"); rawWeek != "" {
		parsed, err := strconv.Atoi(rawWeek)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的week参数"})
			return
		}
		week = parsed
	}
	includeAll := c.Query("all") == "true"

	records, err := CompletionsForUser(database.DB, uint(userID), week, includeAll, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取打卡记录失败"})
		return
	}
	if records == nil {
		records = []Completion{}
	}
	c.JSON(http.StatusOK, records)
}

// PostCompletion 记录一次勾选或撤销(completed=false)
func PostCompletion(c *gin.Context) {
	var body completionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}

	record, err := UpsertCompletion(database.DB, body.UserID, body.TaskID, body.Date, *body.Completed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "记录打卡失败"})
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusCreated, record)
}

// DeleteCompletionRecord 删除一条打卡记录
func DeleteCompletionRecord(c *gin.Context) {
	var body completionKeyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}

	if err := DeleteCompletion(database.DB, body.UserID, body.TaskID, body.Date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "撤销打卡失败"})
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusOK, gin.H{"message": "打卡已撤销"})
}
