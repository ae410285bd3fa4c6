package api

import (
	"github.com/SlpAus/habit-tracker-backend/internal/archive"
	"github.com/SlpAus/habit-tracker-backend/internal/completion"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/health"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/snapshot"
	"github.com/SlpAus/habit-tracker-backend/internal/roster"
	"github.com/SlpAus/habit-tracker-backend/internal/stats"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.Use(roster.EnsureClientCookieMiddleware())
	{
		// 健康检查
		api.GET("/health", health.GetHealth)

		// 用户相关的路由
		api.GET("/users", roster.GetUsers)
		api.POST("/users", roster.PostUser)
		api.PUT("/users/:id", roster.PutUser)
		api.DELETE("/users/:id", roster.DeleteUserByID)

		// 任务相关的路由
		api.GET("/tasks", roster.GetTasks)
		api.POST("/tasks", roster.PostTask)
		api.PUT("/tasks/:id", roster.PutTask)
		api.DELETE("/tasks/:id", roster.DeleteTaskByID)

		// 任务分配相关的路由
		api.GET("/user-tasks", roster.GetUserTasks)
		api.GET("/user-tasks/:userId", roster.GetTasksByUserID)
		api.POST("/user-tasks", roster.PostUserTask)
		api.DELETE("/user-tasks", roster.DeleteUserTask)

		// 打卡相关的路由
		api.GET("/completions/:userId", completion.GetCompletionsByUser)
		api.POST("/completions", completion.PostCompletion)
		api.DELETE("/completions", completion.DeleteCompletionRecord)

		// 统计相关的路由
		api.GET("/statistics", stats.GetStatistics)
		api.GET("/streak", stats.GetStreak)
		api.GET("/weekly-progress", stats.GetWeeklyProgress)

		// 归档相关的路由
		api.GET("/monthly-archives", archive.GetMonthlyArchives)
		api.GET("/monthly-archives/:month", archive.GetMonthlyArchiveByMonth)
		api.POST("/clean-database", archive.CleanDatabase)

		// 数据快照相关的路由
		api.GET("/database", snapshot.GetDatabase)
		api.POST("/update-database", snapshot.UpdateDatabase)
		api.POST("/reset-database", snapshot.ResetDatabase)
	}
}
