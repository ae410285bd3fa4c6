package snapshot

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/cache"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/SlpAus/habit-tracker-backend/internal/roster"
	"github.com/gin-gonic/gin"
)

// GetDatabase 导出整个数据库的内容
func GetDatabase(c *gin.Context) {
	snap, err := Export(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出数据库失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "当前数据库内容",
		"timestamp": time.Now(),
		"data":      snap,
		"stats":     StatsOf(snap),
	})
}

// UpdateDatabase 用请求体中的快照整体替换数据库
func UpdateDatabase(c *gin.Context) {
	fmt.Println("收到数据导入请求...")

	var snap Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的数据格式"})
		return
	}

	if err := Import(database.DB, &snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导入数据失败"})
		return
	}
	fmt.Println("数据导入成功。")

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "数据库已更新",
		"data":    StatsOf(&snap),
	})
}

// ResetDatabase 将数据库重置为初始数据集
func ResetDatabase(c *gin.Context) {
	fmt.Println("收到数据库重置请求...")

	snap := defaultSnapshot()
	if err := Import(database.DB, snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "重置数据库失败"})
		return
	}
	fmt.Println("数据库重置成功。")

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "数据库已重置",
		"data":    StatsOf(snap),
	})
}

// defaultSnapshot 是重置后的初始数据集：
// 默认用户、必要任务和两项个人任务，没有打卡记录和归档。
func defaultSnapshot() *Snapshot {
	return &Snapshot{
		Users: []roster.User{
			{ID: 1, Name: "Cosine", IsAdmin: true},
			{ID: 2, Name: "Iris"},
			{ID: 3, Name: "Anna"},
			{ID: 4, Name: "Rita"},
		},
		Tasks: []roster.Task{
			{ID: 1, Name: roster.MandatoryTaskName, IsCommon: true},
			{ID: 2, Name: "吃藥check"},
			{ID: 3, Name: "每日保健品"},
		},
		UserTasks: []roster.UserTask{
			{UserID: 1, TaskID: 1},
			{UserID: 2, TaskID: 1},
			{UserID: 3, TaskID: 1},
			{UserID: 4, TaskID: 1},
			{UserID: 2, TaskID: 2},
			{UserID: 3, TaskID: 3},
		},
	}
}
