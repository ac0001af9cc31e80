package repository

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/pkg/database"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.Migrate(db))
	return db
}

func TestAchievementRepository_InsertIfAbsent(t *testing.T) {
	db := newSQLiteDB(t)
	require.NoError(t, database.SeedAchievements(db, []model.Achievement{
		{ID: 1, Description: "Complete your first quest", AwardTokens: 50, Category: model.CategoryQuests, Threshold: 1},
	}))
	repo := NewAchievementRepository(db)

	row := func() *model.UserAchievement {
		return &model.UserAchievement{UserID: 9, AchievementID: 1, DateAchieved: time.Now()}
	}

	inserted, err := repo.InsertIfAbsent(row())
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertIfAbsent(row())
	require.NoError(t, err)
	assert.False(t, inserted)

	awarded, err := repo.FindAwardedIDs(9)
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{1: true}, awarded)

	owned, err := repo.FindByUserID(9)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, 50, owned[0].Achievement.AwardTokens)
}

func TestQuestRepository_ExistsCache(t *testing.T) {
	db := newSQLiteDB(t)
	repo, err := NewQuestRepository(db, 4)
	require.NoError(t, err)

	exists, err := repo.Exists(1)
	require.NoError(t, err)
	assert.False(t, exists)

	quest := &model.Quest{Name: "fountain", Description: "Find the fountain", StartDate: time.Now()}
	require.NoError(t, repo.Create(quest))

	// 未命中的结果不缓存
	exists, err = repo.Exists(quest.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(quest.ID))
	exists, err = repo.Exists(quest.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestQuestAttemptRepository_MarkDoneOnce(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewQuestAttemptRepository(db)

	attempt := &model.QuestAttempt{UserID: 1, QuestID: 2}
	require.NoError(t, repo.Create(attempt))

	changed, err := repo.MarkDone(attempt.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkDone(attempt.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)

	count, err := repo.CountDoneByUser(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = repo.Create(&model.QuestAttempt{UserID: 1, QuestID: 2})
	assert.True(t, IsUniqueViolation(err))
}

func TestFriendshipRepository_Symmetric(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewFriendshipRepository(db, nil)

	require.NoError(t, repo.CreateFriendship(1, 2))
	require.NoError(t, repo.CreateFriendship(1, 3))

	for _, pair := range [][2]uint{{1, 2}, {2, 1}} {
		ok, err := repo.IsFriend(pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}

	count, err := repo.CountFriends(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.True(t, IsUniqueViolation(repo.CreateFriendship(2, 1)))

	removed, err := repo.DeleteFriendship(2, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	ids, err := repo.GetFriendIDs(1)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids)
}

func TestUserRepository_TokensAndIDs(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewUserRepository(db)

	for _, name := range []string{"ann", "ben"} {
		require.NoError(t, repo.Create(&model.User{Username: name, Email: name + "@campus.test", Password: "x", Role: model.RoleUser}))
	}

	require.NoError(t, repo.AddTokens(2, 75))
	require.NoError(t, repo.AddTokens(2, 25))

	top, err := repo.FindTopByTokens(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "ben", top[0].Username)
	assert.Equal(t, 100, top[0].Tokens)

	ids, err := repo.FindAllIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids)
}

func TestReactionRepository_CountByPosts(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewReactionRepository(db)

	for _, r := range []model.PostReaction{
		{PostID: 1, UserID: 1, ReactionType: model.ReactionLike},
		{PostID: 1, UserID: 2, ReactionType: model.ReactionLike},
		{PostID: 1, UserID: 3, ReactionType: model.ReactionDislike},
		{PostID: 2, UserID: 1, ReactionType: model.ReactionDislike},
		{PostID: 9, UserID: 1, ReactionType: model.ReactionLike},
	} {
		require.NoError(t, repo.Create(&r))
	}

	counts, err := repo.CountByPosts([]uint{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[uint]ReactionCounts{
		1: {Likes: 2, Dislikes: 1},
		2: {Dislikes: 1},
	}, counts)
	assert.Zero(t, counts[3])

	single, err := repo.CountByPost(1)
	require.NoError(t, err)
	assert.Equal(t, ReactionCounts{Likes: 2, Dislikes: 1}, single)

	empty, err := repo.CountByPosts(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
