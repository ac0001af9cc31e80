package repository

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/pkg/logger"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const friendIDsCacheKey = "campus:relation:friends:%d"

type FriendshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFriendshipRepository(db *gorm.DB, rdb *redis.Client) *FriendshipRepository {
	return &FriendshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// WithContext 绑定请求上下文，缓存操作也使用该上下文
func (r *FriendshipRepository) WithContext(ctx context.Context) *FriendshipRepository {
	return &FriendshipRepository{DB: r.DB.WithContext(ctx), Redis: r.Redis, ctx: ctx}
}

// CreateFriendship 在同一事务中写入双向两行
func (r *FriendshipRepository) CreateFriendship(userID, friendID uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, row := range model.FriendshipPair(userID, friendID) {
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err == nil {
		r.invalidate(userID, friendID)
	}
	return err
}

func (r *FriendshipRepository) DeleteFriendship(userID, friendID uint) (bool, error) {
	var removed int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).Delete(&model.Friendship{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return tx.Where("user_id = ? AND friend_id = ?", friendID, userID).Delete(&model.Friendship{}).Error
	})

	if err == nil {
		r.invalidate(userID, friendID)
	}
	return removed > 0, err
}

func (r *FriendshipRepository) invalidate(ids ...uint) {
	if r.Redis == nil {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(friendIDsCacheKey, id)
	}
	if err := r.Redis.Del(r.ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Friend cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (r *FriendshipRepository) GetFriends(userID uint) ([]model.User, error) {
	var friends []model.User
	err := r.DB.Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Order("users.username ASC").
		Find(&friends).Error
	return friends, err
}

// GetFriendIDs 只获取好友的 ID 列表
func (r *FriendshipRepository) GetFriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Friendship{}).
		Where("user_id = ?", userID).
		Order("friend_id ASC").
		Pluck("friend_id", &ids).Error
	return ids, err
}

// GetFriendIDsCached 获取好友 ID 列表 (带缓存)，仅供好友动态使用；
// 缓存可能短暂落后于数据库，计数请用 CountFriends
func (r *FriendshipRepository) GetFriendIDsCached(userID uint) ([]uint, error) {
	if r.Redis == nil {
		return r.GetFriendIDs(userID)
	}

	key := fmt.Sprintf(friendIDsCacheKey, userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		ids := make([]uint, 0, len(cached))
		for _, s := range cached {
			id, _ := strconv.ParseUint(s, 10, 64)
			// 0 是空集合占位
			if id > 0 {
				ids = append(ids, uint(id))
			}
		}
		return ids, nil
	}

	// 缓存失效，回源数据库
	ids, err := r.GetFriendIDs(userID)
	if err != nil {
		return nil, err
	}
	pipe := r.Redis.Pipeline()
	if len(ids) > 0 {
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
	} else {
		// 防止缓存穿透
		pipe.SAdd(r.ctx, key, 0)
		pipe.Expire(r.ctx, key, 5*time.Minute)
	}
	pipe.Exec(r.ctx)
	return ids, nil
}

// CountFriends 直接统计 friendships 表，每段关系按拥有方计一次
func (r *FriendshipRepository) CountFriends(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Friendship{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *FriendshipRepository) IsFriend(userID, friendID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

// GetMutualFriends 两人共同好友
func (r *FriendshipRepository) GetMutualFriends(userID, otherID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.Joins("JOIN friendships a ON a.friend_id = users.id AND a.user_id = ?", userID).
		Joins("JOIN friendships b ON b.friend_id = users.id AND b.user_id = ?", otherID).
		Order("users.username ASC").
		Find(&users).Error
	return users, err
}
