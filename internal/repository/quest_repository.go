package repository

import (
	"campus_quest_backend/internal/model"

	lru "github.com/hashicorp/golang-lru"
	"gorm.io/gorm"
)

// QuestRepository 任务目录；存在性查询走进程内 LRU，只缓存命中结果
type QuestRepository struct {
	DB     *gorm.DB
	exists *lru.Cache
}

func NewQuestRepository(db *gorm.DB, cacheSize int) (*QuestRepository, error) {
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &QuestRepository{DB: db, exists: cache}, nil
}

func (r *QuestRepository) Create(quest *model.Quest) error {
	return r.DB.Create(quest).Error
}

func (r *QuestRepository) Update(quest *model.Quest) error {
	return r.DB.Save(quest).Error
}

func (r *QuestRepository) Delete(id uint) error {
	err := r.DB.Delete(&model.Quest{}, id).Error
	if err == nil {
		r.exists.Remove(id)
	}
	return err
}

func (r *QuestRepository) FindByID(id uint) (*model.Quest, error) {
	var quest model.Quest
	err := r.DB.First(&quest, id).Error
	return &quest, err
}

func (r *QuestRepository) FindWithPagination(offset, limit int) ([]model.Quest, int64, error) {
	var quests []model.Quest
	var total int64

	if err := r.DB.Model(&model.Quest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Order("start_date DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&quests).Error
	return quests, total, err
}

func (r *QuestRepository) Exists(id uint) (bool, error) {
	if _, ok := r.exists.Get(id); ok {
		return true, nil
	}

	var count int64
	if err := r.DB.Model(&model.Quest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		r.exists.Add(id, struct{}{})
	}
	return count > 0, nil
}
