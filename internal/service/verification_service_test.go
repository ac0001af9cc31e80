package service

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/util"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitVerification_QuorumOfTwo(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "b")
	c := env.createUser(t, "c")
	d := env.createUser(t, "d")
	quest := env.createQuest(t, "lighthouse")
	env.post(t, owner.ID, quest.ID)

	first, err := env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.VerificationCount)
	assert.False(t, first.IsVerified)
	assert.False(t, first.JustVerified)
	assert.Equal(t, []uint{14}, achievementIDs(first.NewAchievements))

	second, err := env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.VerificationCount)
	assert.True(t, second.IsVerified)
	assert.True(t, second.JustVerified)

	third, err := env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.VerificationCount)
	assert.True(t, third.IsVerified)
	assert.False(t, third.JustVerified)
	assert.Equal(t, 50, env.tokensOf(t, d.ID))

	attempt, err := env.attempts.GetAttempt(owner.ID, quest.ID)
	require.NoError(t, err)
	assert.True(t, attempt.IsVerified)
	assert.True(t, attempt.IsDone)
}

func TestSubmitVerification_DuplicateVote(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "b")
	quest := env.createQuest(t, "museum")
	env.post(t, owner.ID, quest.ID)

	_, err := env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, b.ID)
	require.NoError(t, err)

	_, err = env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, b.ID)
	assert.ErrorIs(t, err, util.ErrDuplicateVerification)

	status, err := env.verifications.GetStatus(quest.ID, owner.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.VerificationCount)
	assert.False(t, status.IsVerified)
	assert.True(t, status.VerifiedByMe)
	assert.Equal(t, 50, env.tokensOf(t, b.ID))
}

func TestSubmitVerification_AlreadyVerifiedIsNoop(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "b")
	c := env.createUser(t, "c")
	quest := env.createQuest(t, "pier")
	env.post(t, owner.ID, quest.ID)

	for _, voter := range []*model.User{b, c} {
		_, err := env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, voter.ID)
		require.NoError(t, err)
	}

	again, err := env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyVerified)
	assert.True(t, again.IsVerified)
	assert.False(t, again.JustVerified)
	assert.Equal(t, int64(2), again.VerificationCount)
	assert.Empty(t, again.NewAchievements)
}

func TestSubmitVerification_Rejections(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "b")
	started := env.createQuest(t, "started")
	done := env.createQuest(t, "done")

	attempt, err := env.attempts.StartAttempt(ctxBg, owner.ID, started.ID)
	require.NoError(t, err)
	env.post(t, owner.ID, done.ID)

	// 自我验证优先于完成状态检查
	_, err = env.verifications.SubmitVerification(ctxBg, attempt.ID, owner.ID)
	assert.ErrorIs(t, err, util.ErrSelfVerification)

	_, err = env.verifications.VerifyUserQuest(ctxBg, done.ID, owner.ID, owner.ID)
	assert.ErrorIs(t, err, util.ErrSelfVerification)

	_, err = env.verifications.SubmitVerification(ctxBg, attempt.ID, b.ID)
	assert.ErrorIs(t, err, util.ErrNotDoneYet)

	_, err = env.verifications.SubmitVerification(ctxBg, 9999, b.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	_, err = env.verifications.VerifyUserQuest(ctxBg, done.ID, b.ID, owner.ID)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	var votes int64
	require.NoError(t, env.db.Model(&model.QuestVerification{}).Count(&votes).Error)
	assert.Zero(t, votes)
}

func TestSubmitVerification_ConcurrentSameVerifier(t *testing.T) {
	env := newTestEnv(t)
	env.serializeConnections(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "b")
	quest := env.createQuest(t, "bell")
	env.post(t, owner.ID, quest.ID)

	errs := fanOut(8, func(int) error {
		_, err := env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, b.ID)
		return err
	})

	ok, dup := countErrors(errs, util.ErrDuplicateVerification)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, dup)

	status, err := env.verifications.GetStatus(quest.ID, owner.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.VerificationCount)
	assert.False(t, status.IsVerified)
	assert.Equal(t, 50, env.tokensOf(t, b.ID))
}

func TestSubmitVerification_ConcurrentQuorumFlipsOnce(t *testing.T) {
	env := newTestEnv(t)
	env.serializeConnections(t)
	owner := env.createUser(t, "owner")
	voters := make([]*model.User, 5)
	for i := range voters {
		voters[i] = env.createUser(t, fmt.Sprintf("voter-%d", i))
	}
	quest := env.createQuest(t, "harbour")
	env.post(t, owner.ID, quest.ID)

	results := make([]*VerificationResult, len(voters))
	errs := fanOut(len(voters), func(i int) (err error) {
		results[i], err = env.verifications.VerifyUserQuest(ctxBg, quest.ID, owner.ID, voters[i].ID)
		return err
	})

	flips := 0
	for i, err := range errs {
		require.NoError(t, err)
		if results[i].JustVerified {
			flips++
			assert.Equal(t, int64(util.VerificationQuorum), results[i].VerificationCount)
		}
	}
	assert.Equal(t, 1, flips)

	status, err := env.verifications.GetStatus(quest.ID, owner.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, status.IsVerified)
	assert.Equal(t, int64(len(voters)), status.VerificationCount)
}
