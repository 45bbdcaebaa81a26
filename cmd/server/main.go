package main

import (
	"flag"
	"log"
	"os"

	"k8s.io/klog/v2"

	"github.com/ompps/backend/config"
	"github.com/ompps/backend/internal/handler"
	"github.com/ompps/backend/internal/pkg/database"
	"github.com/ompps/backend/internal/repository"
	"github.com/ompps/backend/internal/router"
	"github.com/ompps/backend/internal/service"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 初始化数据库（含旧库结构演进，结构迁移失败直接中止启动）
	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化 Repository
	wsRepo := repository.NewWorkspaceRepository(db)
	objRepo := repository.NewObjectiveRepository(db)
	recRepo := repository.NewRecordRepository(db)

	// 初始化 Service
	wsService := service.NewWorkspaceService(cfg, wsRepo, objRepo)
	objService := service.NewObjectiveService(objRepo)
	recService := service.NewRecordService(recRepo, wsRepo)
	expService := service.NewExportService(wsRepo, objRepo, recRepo)

	// 启动时清理逾期工作区
	cleanupExpiredWorkspaces(wsService)

	// 初始化 Handler
	wsHandler := handler.NewWorkspaceHandler(wsService)
	objHandler := handler.NewObjectiveHandler(wsService, objService)
	recHandler := handler.NewRecordHandler(wsService, recService)
	expHandler := handler.NewExportHandler(expService)

	// 设置路由
	r := router.Setup(cfg, wsHandler, objHandler, recHandler, expHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// cleanupExpiredWorkspaces 启动时的保留期清理，失败只记录，不中止启动
func cleanupExpiredWorkspaces(wsService *service.WorkspaceService) {
	removed, err := wsService.CleanupExpired()
	if err != nil {
		klog.Errorf("清理逾期工作区失败: %v", err)
		return
	}

	if removed > 0 {
		klog.V(6).Infof("启动时清理了 %d 个逾期工作区", removed)
	}
}
