// @title 新员工入职培训 API
// @version 1.0
// @description 入职培训课程、模块门控与学习进度服务。

// @contact.name API支持
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"onboarding_backend/internal/app"
	"onboarding_backend/internal/config"
	"onboarding_backend/pkg/configwatcher"
	"onboarding_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := configwatcher.WatchConfig(ctx, filepath.Join(*configDir, "config.yaml"), application.ApplyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()

	application.Run()
}
