package roster

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/cache"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- 请求模型 ---

type userBody struct {
	Name    string `json:"name" binding:"required"`
	IsAdmin bool   `json:"isAdmin"`
}

type taskBody struct {
	Name      string `json:"name" binding:"required"`
	IsCommon  bool   `json:"isCommon"`
	CreatorID uint   `json:"creatorId" binding:"required"`
}

type assignmentBody struct {
	UserID uint `json:"userId" binding:"required"`
	TaskID uint `json:"taskId" binding:"required"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的ID参数"})
		return 0, false
	}
	return uint(id), true
}

// --- 用户控制器 ---

// GetUsers 获取全部用户
func GetUsers(c *gin.Context) {
	users, err := ListUsers(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户列表失败"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// PostUser 创建新用户
func PostUser(c *gin.Context) {
	var body userBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}

	user, err := CreateUser(database.DB, body.Name, body.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建用户失败"})
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusCreated, user)
}

// PutUser 更新用户
func PutUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body userBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}

	user, err := UpdateUser(database.DB, userID, body.Name, body.IsAdmin)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "找不到指定用户"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新用户失败"})
		}
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusOK, user)
}

// DeleteUserByID 删除用户及其相关数据
func DeleteUserByID(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := DeleteUser(database.DB, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除用户失败"})
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusOK, gin.H{"message": "用户已删除"})
}

// --- 任务控制器 ---

// GetTasks 获取全部任务，或通过userId查询参数获取指定用户的任务
func GetTasks(c *gin.Context) {
	if rawID := c.Query("userId"); rawID != "" {
		userID, err := strconv.ParseUint(rawID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的userId参数"})
			return
		}
		tasks, err := TasksForUser(database.DB, uint(userID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户任务失败"})
			return
		}
		c.JSON(http.StatusOK, tasks)
		return
	}

	tasks, err := ListTasks(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取任务列表失败"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTasksByUserID 获取分配给指定用户的任务列表
func GetTasksByUserID(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	tasks, err := TasksForUser(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取用户任务失败"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// PostTask 以管理员身份创建新任务
func PostTask(c *gin.Context) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}

	task, err := CreateTask(database.DB, body.CreatorID, body.Name, body.IsCommon)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAdmin):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "找不到指定用户"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "创建任务失败"})
		}
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusCreated, task)
}

// PutTask 更新任务名称
func PutTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}

	task, err := UpdateTask(database.DB, taskID, body.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "找不到指定任务"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "更新任务失败"})
		}
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusOK, task)
}

// DeleteTaskByID 删除任务；必要任务会被拒绝
func DeleteTaskByID(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := DeleteTask(database.DB, taskID); err != nil {
		switch {
		case errors.Is(err, ErrMandatoryTask):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "找不到指定任务"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "删除任务失败"})
		}
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusOK, gin.H{"message": "任务已删除"})
}

// --- 任务分配控制器 ---

// GetUserTasks 获取全部分配关系
func GetUserTasks(c *gin.Context) {
	pairs, err := ListUserTasks(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取任务分配失败"})
		return
	}
	c.JSON(http.StatusOK, pairs)
}

// PostUserTask 建立一条分配关系
func PostUserTask(c *gin.Context) {
	var body assignmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}

	if err := AssignTask(database.DB, body.UserID, body.TaskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "建立任务分配失败"})
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusCreated, gin.H{"message": "任务已分配"})
}

// DeleteUserTask 解除一条分配关系
func DeleteUserTask(c *gin.Context) {
	var body assignmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式不正确"})
		return
	}

	if err := UnassignTask(database.DB, body.UserID, body.TaskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "解除任务分配失败"})
		return
	}

	cache.Invalidate(cache.StatisticsKey)
	c.JSON(http.StatusOK, gin.H{"message": "任务分配已解除"})
}
