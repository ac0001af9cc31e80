package model

import "time"

type AchievementCategory string

const (
	CategoryQuests        AchievementCategory = "quests"
	CategoryFriends       AchievementCategory = "friends"
	CategoryLikes         AchievementCategory = "likes"
	CategoryVerifications AchievementCategory = "verifications"
)

// Achievement is a static catalog row seeded from the milestone tables.
type Achievement struct {
	ID          uint                `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Description string              `gorm:"size:255;not null" json:"description"`
	AwardTokens int                 `gorm:"not null" json:"awardTokens"`
	Category    AchievementCategory `gorm:"size:32;not null;index" json:"category"`
	Threshold   int                 `gorm:"not null" json:"threshold"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records an award; the unique index makes awards happen once.
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint        `gorm:"not null;uniqueIndex:idx_user_achievement,priority:1" json:"userId"`
	AchievementID uint        `gorm:"not null;uniqueIndex:idx_user_achievement,priority:2" json:"achievementId"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID;constraint:false" json:"achievement"`
	DateAchieved  time.Time   `gorm:"not null" json:"dateAchieved"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
