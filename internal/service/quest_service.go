package service

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/repository"
	"campus_quest_backend/internal/util"
	"time"
)

type QuestService struct {
	QuestRepo   *repository.QuestRepository
	AttemptRepo *repository.QuestAttemptRepository
}

func NewQuestService(questRepo *repository.QuestRepository, attemptRepo *repository.QuestAttemptRepository) *QuestService {
	return &QuestService{QuestRepo: questRepo, AttemptRepo: attemptRepo}
}

type QuestRequest struct {
	Name         string     `json:"name" binding:"required,max=255"`
	Description  string     `json:"description" binding:"required"`
	LocationLat  *float64   `json:"locationLat" binding:"omitempty,latitude"`
	LocationLong *float64   `json:"locationLong" binding:"omitempty,longitude"`
	Points       int        `json:"points" binding:"min=0"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

func (r *QuestRequest) apply(q *model.Quest) {
	q.Name = r.Name
	q.Description = r.Description
	q.LocationLat = r.LocationLat
	q.LocationLong = r.LocationLong
	q.Points = r.Points
	if r.StartDate != nil {
		q.StartDate = *r.StartDate
	} else if q.StartDate.IsZero() {
		q.StartDate = time.Now()
	}
	q.EndDate = r.EndDate
}

func (s *QuestService) CreateQuest(req *QuestRequest) (*model.Quest, error) {
	quest := &model.Quest{}
	req.apply(quest)
	if err := s.QuestRepo.Create(quest); err != nil {
		return nil, err
	}
	return quest, nil
}

func (s *QuestService) UpdateQuest(id uint, req *QuestRequest) (*model.Quest, error) {
	quest, err := s.GetQuest(id)
	if err != nil {
		return nil, err
	}
	req.apply(quest)
	if err := s.QuestRepo.Update(quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// DeleteQuest 已有用户参与的任务不允许删除
func (s *QuestService) DeleteQuest(id uint) error {
	if _, err := s.GetQuest(id); err != nil {
		return err
	}
	count, err := s.AttemptRepo.CountByQuest(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.ErrQuestHasAttempts
	}
	return s.QuestRepo.Delete(id)
}

func (s *QuestService) GetQuest(id uint) (*model.Quest, error) {
	quest, err := s.QuestRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrQuestNotFound
		}
		return nil, err
	}
	return quest, nil
}

func (s *QuestService) ListQuests(page, limit int) ([]model.Quest, int64, error) {
	return s.QuestRepo.FindWithPagination(pageOffset(page, limit), limit)
}
