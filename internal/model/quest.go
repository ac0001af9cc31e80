package model

import "time"

// Quest is a catalog entry users pursue by submitting evidence posts.
type Quest struct {
	BaseModel
	Name         string     `gorm:"size:255;not null" json:"name"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	LocationLat  *float64   `json:"locationLat"`
	LocationLong *float64   `json:"locationLong"`
	Points       int        `gorm:"not null;default:0" json:"points"`
	StartDate    time.Time  `gorm:"not null" json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

func (Quest) TableName() string {
	return "quests"
}

// QuestAttempt is one user's pursuit of one quest. The (user_id, quest_id)
// unique index is the source of truth for one attempt per pair.
type QuestAttempt struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_attempt_user_quest,priority:1" json:"userId"`
	QuestID       uint       `gorm:"not null;uniqueIndex:idx_attempt_user_quest,priority:2;index" json:"questId"`
	IsDone        bool       `gorm:"not null;default:false" json:"isDone"`
	IsVerified    bool       `gorm:"not null;default:false" json:"isVerified"`
	DateCompleted *time.Time `json:"dateCompleted"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (QuestAttempt) TableName() string {
	return "quest_attempts"
}

// QuestVerification is one verifier's vote on a completed attempt.
type QuestVerification struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestAttemptID uint      `gorm:"not null;uniqueIndex:idx_verification_attempt_verifier,priority:1" json:"questAttemptId"`
	VerifierID     uint      `gorm:"not null;uniqueIndex:idx_verification_attempt_verifier,priority:2;index" json:"verifierId"`
	VerifiedAt     time.Time `gorm:"not null" json:"verifiedAt"`
}

func (QuestVerification) TableName() string {
	return "quest_verifications"
}
