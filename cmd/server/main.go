package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/habit-tracker-backend/api"
	"github.com/SlpAus/habit-tracker-backend/internal/archive"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/config"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/health"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/shutdown"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/snapshot"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/startup"
	"github.com/SlpAus/habit-tracker-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	// 2. 初始化数据库和Redis
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 3. 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 4. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 5. 创建生命周期管理器并启动后台服务
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	healthHandle, err := forcefulMgr.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(fmt.Sprintf("无法创建健康检查服务: %v", err))
	}
	go health.StartRedisHealthCheck(healthHandle)

	snapshotHandle, err := gracefulMgr.NewServiceHandle("snapshot-scheduler")
	if err != nil {
		panic(fmt.Sprintf("无法创建快照服务: %v", err))
	}
	go snapshot.StartSnapshotScheduler(snapshotHandle)

	// 6. 启动每日归档调度器
	archiver, err := archive.NewScheduler(cfg.Archive.DailyCheckTime)
	if err != nil {
		panic(fmt.Sprintf("无法创建归档调度器: %v", err))
	}
	archiver.Start()

	// 7. 配置Gin引擎和CORS
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	// 8. 启动HTTP服务器并等待停机信号
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}
	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr, archiver)
	coordinator.ListenForSignalsAndShutdown(server)
}
