package repository

import (
	"campus_quest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) WithTx(tx *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: tx}
}

func (r *AchievementRepository) FindAll() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("id ASC").Find(&achievements).Error
	return achievements, err
}

// FindAwardedIDs 用户已获得的成就 ID 集合
func (r *AchievementRepository) FindAwardedIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}
	awarded := make(map[uint]bool, len(ids))
	for _, id := range ids {
		awarded[id] = true
	}
	return awarded, nil
}

func (r *AchievementRepository) FindByUserID(userID uint) ([]model.UserAchievement, error) {
	var achievements []model.UserAchievement
	err := r.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("date_achieved ASC").Order("achievement_id ASC").
		Find(&achievements).Error
	return achievements, err
}

// InsertIfAbsent 冲突时不插入；返回值表示本次是否真正写入
func (r *AchievementRepository) InsertIfAbsent(ua *model.UserAchievement) (bool, error) {
	result := r.DB.Omit("Achievement").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(ua)
	return result.RowsAffected == 1, result.Error
}
