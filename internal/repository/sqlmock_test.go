package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_AddTokens(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	t.Run("increments in place", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `users` SET `tokens`=tokens \\+ \\?").
			WithArgs(150, sqlmock.AnyArg(), 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.AddTokens(7, 150))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error surfaces", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `users`").
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		assert.Error(t, repo.AddTokens(7, 50))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostRepository_CountLikesReceived(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery("(?i)SELECT count\\(\\*\\) FROM `post_reactions` JOIN posts ON posts.id = post_reactions.post_id").
		WithArgs(3, "like").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountLikesReceived(3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationRepository_CountByAttempt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationRepository(db)

	mock.ExpectQuery("(?i)SELECT count\\(DISTINCT").
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByAttempt(11)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendshipRepository_CountFriendsQueriesTable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFriendshipRepository(db, nil)

	mock.ExpectQuery("(?i)SELECT count\\(\\*\\) FROM `friendships` WHERE user_id = \\?").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountFriends(5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_CountByPostsSingleQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReactionRepository(db)

	mock.ExpectQuery("(?i)SELECT post_id, reaction_type, COUNT\\(\\*\\) AS total FROM `post_reactions` WHERE post_id IN \\(\\?,\\?,\\?\\) GROUP BY post_id, reaction_type").
		WithArgs(4, 5, 6).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "reaction_type", "total"}).
			AddRow(4, "like", 3).
			AddRow(6, "dislike", 1))

	counts, err := repo.CountByPosts([]uint{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, ReactionCounts{Likes: 3}, counts[4])
	assert.Equal(t, ReactionCounts{}, counts[5])
	assert.Equal(t, ReactionCounts{Dislikes: 1}, counts[6])
	assert.NoError(t, mock.ExpectationsWereMet())
}
