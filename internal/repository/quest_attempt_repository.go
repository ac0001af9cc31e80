package repository

import (
	"campus_quest_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestAttemptRepository struct {
	DB *gorm.DB
}

func NewQuestAttemptRepository(db *gorm.DB) *QuestAttemptRepository {
	return &QuestAttemptRepository{DB: db}
}

func (r *QuestAttemptRepository) WithTx(tx *gorm.DB) *QuestAttemptRepository {
	return &QuestAttemptRepository{DB: tx}
}

func (r *QuestAttemptRepository) WithContext(ctx context.Context) *QuestAttemptRepository {
	return &QuestAttemptRepository{DB: r.DB.WithContext(ctx)}
}

func (r *QuestAttemptRepository) Create(attempt *model.QuestAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuestAttemptRepository) FindByID(id uint) (*model.QuestAttempt, error) {
	var attempt model.QuestAttempt
	err := r.DB.First(&attempt, id).Error
	return &attempt, err
}

// FindByIDForUpdate 锁定尝试记录，投票计数与状态翻转在同一事务内串行化
func (r *QuestAttemptRepository) FindByIDForUpdate(id uint) (*model.QuestAttempt, error) {
	var attempt model.QuestAttempt
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).First(&attempt, id).Error
	return &attempt, err
}

func (r *QuestAttemptRepository) FindByUserAndQuest(userID, questID uint) (*model.QuestAttempt, error) {
	var attempt model.QuestAttempt
	err := r.DB.Where("user_id = ? AND quest_id = ?", userID, questID).First(&attempt).Error
	return &attempt, err
}

func (r *QuestAttemptRepository) FindByUser(userID uint) ([]model.QuestAttempt, error) {
	var attempts []model.QuestAttempt
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&attempts).Error
	return attempts, err
}

// MarkDone 只更新未完成的记录，返回是否真正发生了状态变化
func (r *QuestAttemptRepository) MarkDone(id uint, at time.Time) (bool, error) {
	result := r.DB.Model(&model.QuestAttempt{}).
		Where("id = ? AND is_done = ?", id, false).
		Updates(map[string]interface{}{"is_done": true, "date_completed": at})
	return result.RowsAffected == 1, result.Error
}

func (r *QuestAttemptRepository) MarkVerified(id uint) error {
	return r.DB.Model(&model.QuestAttempt{}).
		Where("id = ?", id).
		Update("is_verified", true).Error
}

func (r *QuestAttemptRepository) Delete(id uint) error {
	return r.DB.Delete(&model.QuestAttempt{}, id).Error
}

func (r *QuestAttemptRepository) CountDoneByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestAttempt{}).
		Where("user_id = ? AND is_done = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *QuestAttemptRepository) CountByQuest(questID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestAttempt{}).Where("quest_id = ?", questID).Count(&count).Error
	return count, err
}
