package model

import "time"

// Friendship 双向存储：每段关系写两行 (a,b) 与 (b,a)，按 friend_id 反查也走索引
type Friendship struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	FriendID  uint      `gorm:"primaryKey;autoIncrement:false;index:idx_friendship_friend" json:"friendId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// FriendshipPair 返回一段关系需要写入的两行
func FriendshipPair(a, b uint) [2]Friendship {
	return [2]Friendship{{UserID: a, FriendID: b}, {UserID: b, FriendID: a}}
}
