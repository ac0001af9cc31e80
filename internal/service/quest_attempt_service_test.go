package service

import (
	"campus_quest_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAttempt(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "starter")
	quest := env.createQuest(t, "clocktower")

	attempt, err := env.attempts.StartAttempt(ctxBg, user.ID, quest.ID)
	require.NoError(t, err)
	assert.False(t, attempt.IsDone)
	assert.False(t, attempt.IsVerified)
	assert.Nil(t, attempt.DateCompleted)

	_, err = env.attempts.StartAttempt(ctxBg, user.ID, quest.ID)
	assert.ErrorIs(t, err, util.ErrDuplicateAttempt)

	_, err = env.attempts.StartAttempt(ctxBg, user.ID, 999)
	assert.ErrorIs(t, err, util.ErrQuestNotFound)
}

func TestCompleteAttempt(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "finisher")
	quest := env.createQuest(t, "garden")

	_, err := env.attempts.CompleteAttempt(ctxBg, user.ID, quest.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	_, err = env.attempts.StartAttempt(ctxBg, user.ID, quest.ID)
	require.NoError(t, err)

	result, err := env.attempts.CompleteAttempt(ctxBg, user.ID, quest.ID)
	require.NoError(t, err)
	assert.True(t, result.Attempt.IsDone)
	require.NotNil(t, result.Attempt.DateCompleted)
	assert.Equal(t, []uint{1}, achievementIDs(result.NewAchievements))

	_, err = env.attempts.CompleteAttempt(ctxBg, user.ID, quest.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyCompleted)

	stored, err := env.attempts.GetAttempt(user.ID, quest.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDone)
	assert.Equal(t, 50, env.tokensOf(t, user.ID))
}

func TestListUserAttempts(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "lister")
	quests := env.createQuests(t, 3)

	env.post(t, user.ID, quests[0].ID)
	_, err := env.attempts.StartAttempt(ctxBg, user.ID, quests[1].ID)
	require.NoError(t, err)

	attempts, err := env.attempts.ListUserAttempts(user.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	done := 0
	for _, a := range attempts {
		if a.IsDone {
			done++
		}
	}
	assert.Equal(t, 1, done)

	_, err = env.attempts.ListUserAttempts(999)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = env.attempts.GetAttempt(user.ID, quests[2].ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}
