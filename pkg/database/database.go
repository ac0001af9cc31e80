package database

import (
	"campus_quest_backend/internal/config"
	"campus_quest_backend/internal/model"
	"fmt"
	"time"

	"campus_quest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// DSN 根据驱动拼接连接串
func DSN(cfg *config.DatabaseConfig) string {
	switch cfg.Driver {
	case "postgres":
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
	}
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql", "":
		return mysql.Open(DSN(cfg)), nil
	case "postgres":
		return postgres.Open(DSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func InitDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// Migrate 自动迁移全部表结构
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Quest{},
		&model.QuestAttempt{},
		&model.Post{},
		&model.PostReaction{},
		&model.QuestVerification{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Friendship{},
	)
	if err != nil {
		return err
	}
	logger.Log.Info("Database migration completed")
	return nil
}

// SeedAchievements inserts catalog rows whose id is not present yet.
// Existing rows are left untouched.
func SeedAchievements(db *gorm.DB, rows []model.Achievement) error {
	if len(rows) == 0 {
		return nil
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&rows)
	if result.Error != nil {
		return result.Error
	}
	logger.Log.Info("Achievement catalog seeded",
		zap.Int("catalog", len(rows)),
		zap.Int64("inserted", result.RowsAffected))
	return nil
}
