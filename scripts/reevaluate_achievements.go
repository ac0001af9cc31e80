// 手动重新评估所有用户的成就
//
// 成就目录新增档位后，已达到新阈值的老用户要等到下一次相关操作才会获得奖励。
// 此脚本对每个用户执行一次评估，重复执行不会重复发放。
//
// 用法: go run scripts/reevaluate_achievements.go

package main

import (
	"campus_quest_backend/internal/config"
	"campus_quest_backend/internal/repository"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/pkg/database"
	"campus_quest_backend/pkg/logger"
	"context"
	"log"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	catalog := service.DefaultMilestoneCatalog()
	if err := database.SeedAchievements(db, catalog.Achievements()); err != nil {
		log.Fatalf("写入成就目录失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	achievements := service.NewAchievementService(
		db,
		repository.NewAchievementRepository(db),
		userRepo,
		repository.NewQuestAttemptRepository(db),
		repository.NewPostRepository(db),
		repository.NewVerificationRepository(db),
		repository.NewFriendshipRepository(db, nil),
		catalog,
	)

	ids, err := userRepo.FindAllIDs()
	if err != nil {
		log.Fatalf("读取用户失败: %v", err)
	}

	log.Printf("开始评估 %d 个用户...", len(ids))
	awarded := 0
	for _, id := range ids {
		got, err := achievements.EvaluateAndAward(context.Background(), id)
		if err != nil {
			logger.Log.Error("Evaluation failed", zap.Uint("userID", id), zap.Error(err))
			continue
		}
		awarded += len(got)
	}
	log.Printf("完成！新发放 %d 个成就", awarded)
}
