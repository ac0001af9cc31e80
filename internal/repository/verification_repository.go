package repository

import (
	"campus_quest_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type VerificationRepository struct {
	DB *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{DB: db}
}

func (r *VerificationRepository) WithTx(tx *gorm.DB) *VerificationRepository {
	return &VerificationRepository{DB: tx}
}

func (r *VerificationRepository) WithContext(ctx context.Context) *VerificationRepository {
	return &VerificationRepository{DB: r.DB.WithContext(ctx)}
}

func (r *VerificationRepository) Create(v *model.QuestVerification) error {
	return r.DB.Create(v).Error
}

func (r *VerificationRepository) Exists(attemptID, verifierID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.QuestVerification{}).
		Where("quest_attempt_id = ? AND verifier_id = ?", attemptID, verifierID).
		Count(&count).Error
	return count > 0, err
}

func (r *VerificationRepository) CountByAttempt(attemptID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestVerification{}).
		Where("quest_attempt_id = ?", attemptID).
		Distinct("verifier_id").
		Count(&count).Error
	return count, err
}

func (r *VerificationRepository) CountByVerifier(verifierID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestVerification{}).
		Where("verifier_id = ?", verifierID).
		Count(&count).Error
	return count, err
}

func (r *VerificationRepository) DeleteByAttempt(attemptID uint) error {
	return r.DB.Where("quest_attempt_id = ?", attemptID).Delete(&model.QuestVerification{}).Error
}
