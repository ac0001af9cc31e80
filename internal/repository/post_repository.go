package repository

import (
	"campus_quest_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{DB: tx}
}

func (r *PostRepository) WithContext(ctx context.Context) *PostRepository {
	return &PostRepository{DB: r.DB.WithContext(ctx)}
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Omit("QuestAttempt").Create(post).Error
}

func (r *PostRepository) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	err := r.DB.Preload("QuestAttempt").First(&post, id).Error
	return &post, err
}

func (r *PostRepository) ExistsForAttempt(attemptID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Post{}).Where("quest_attempt_id = ?", attemptID).Count(&count).Error
	return count > 0, err
}

// FindIDsByUser 用户全部帖子 ID，最新在前
func (r *PostRepository) FindIDsByUser(userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.DB.Model(&model.Post{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Pluck("id", &ids).Error
	return ids, err
}

// FindWithPagination 按创建时间倒序；userIDs 为空表示全站
func (r *PostRepository) FindWithPagination(offset, limit int, userIDs []uint) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	db := r.DB.Model(&model.Post{})
	if userIDs != nil {
		if len(userIDs) == 0 {
			return posts, 0, nil
		}
		db = db.Where("user_id IN ?", userIDs)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("QuestAttempt").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Post{}, id).Error
}

// CountLikesReceived 统计用户所有帖子收到的点赞数
func (r *PostRepository) CountLikesReceived(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PostReaction{}).
		Joins("JOIN posts ON posts.id = post_reactions.post_id").
		Where("posts.user_id = ? AND post_reactions.reaction_type = ?", userID, model.ReactionLike).
		Count(&count).Error
	return count, err
}

type ReactionRepository struct {
	DB *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{DB: db}
}

func (r *ReactionRepository) WithTx(tx *gorm.DB) *ReactionRepository {
	return &ReactionRepository{DB: tx}
}

func (r *ReactionRepository) Find(postID, userID uint) (*model.PostReaction, error) {
	var reaction model.PostReaction
	err := r.DB.Where("post_id = ? AND user_id = ?", postID, userID).First(&reaction).Error
	return &reaction, err
}

func (r *ReactionRepository) Create(reaction *model.PostReaction) error {
	return r.DB.Create(reaction).Error
}

func (r *ReactionRepository) UpdateType(id uint, reactionType model.ReactionType) error {
	return r.DB.Model(&model.PostReaction{}).Where("id = ?", id).Update("reaction_type", reactionType).Error
}

func (r *ReactionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.PostReaction{}, id).Error
}

func (r *ReactionRepository) DeleteByPost(postID uint) error {
	return r.DB.Where("post_id = ?", postID).Delete(&model.PostReaction{}).Error
}

type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

type reactionTotal struct {
	PostID       uint
	ReactionType model.ReactionType
	Total        int64
}

func (c *ReactionCounts) add(row reactionTotal) {
	switch row.ReactionType {
	case model.ReactionLike:
		c.Likes += row.Total
	case model.ReactionDislike:
		c.Dislikes += row.Total
	}
}

func (r *ReactionRepository) CountByPost(postID uint) (ReactionCounts, error) {
	counts, err := r.CountByPosts([]uint{postID})
	return counts[postID], err
}

// CountByPosts 一次 GROUP BY 取回整页帖子的点赞/点踩数，没有反应的帖子为零值
func (r *ReactionRepository) CountByPosts(postIDs []uint) (map[uint]ReactionCounts, error) {
	counts := make(map[uint]ReactionCounts, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []reactionTotal
	err := r.DB.Model(&model.PostReaction{}).
		Select("post_id, reaction_type, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id, reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		c := counts[row.PostID]
		c.add(row)
		counts[row.PostID] = c
	}
	return counts, nil
}
