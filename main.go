// @title CampusQuest 后端 API
// @version 1.0
// @description CampusQuest 任务打卡、社交验证与成就系统的后端服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"campus_quest_backend/internal/app"
	"campus_quest_backend/internal/config"
	"campus_quest_backend/pkg/logger"
	"flag"
	"log"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件 config.yaml 所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if cfg.MigrateOnly {
		logger.Log.Info("migrate-only: 迁移完成，退出", zap.String("config_dir", *configDir))
		return
	}

	application.Run()
}
