package model

import "time"

// Post is the photo evidence for exactly one QuestAttempt.
type Post struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint         `gorm:"not null;index" json:"userId"`
	Caption        string       `gorm:"size:255;not null" json:"caption"`
	ImageKey       string       `gorm:"size:255;not null" json:"-"`
	ImageURL       string       `gorm:"size:512" json:"imageUrl"`
	QuestAttemptID uint         `gorm:"not null;uniqueIndex" json:"questAttemptId"`
	QuestAttempt   QuestAttempt `gorm:"foreignKey:QuestAttemptID;constraint:false" json:"questAttempt"`
	CreatedAt      time.Time    `gorm:"index" json:"createdAt"`
}

func (Post) TableName() string {
	return "posts"
}

type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

type PostReaction struct {
	ID           uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID       uint         `gorm:"not null;uniqueIndex:idx_reaction_post_user,priority:1" json:"postId"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_reaction_post_user,priority:2" json:"userId"`
	ReactionType ReactionType `gorm:"size:16;not null" json:"reactionType"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func (PostReaction) TableName() string {
	return "post_reactions"
}
