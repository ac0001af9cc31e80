package controller

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockQuestVerifier struct {
	mock.Mock
}

func (m *MockQuestVerifier) VerifyUserQuest(ctx context.Context, questID, targetUserID, verifierID uint) (*service.VerificationResult, error) {
	args := m.Called(ctx, questID, targetUserID, verifierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerificationResult), args.Error(1)
}

func (m *MockQuestVerifier) GetStatus(questID, targetUserID, viewerID uint) (*service.VerificationStatus, error) {
	args := m.Called(questID, targetUserID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerificationStatus), args.Error(1)
}

type MockPostManager struct {
	mock.Mock
}

func (m *MockPostManager) CreatePostForQuest(ctx context.Context, userID, questID uint, caption string, image []byte) (*service.PostResult, error) {
	args := m.Called(ctx, userID, questID, caption, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostResult), args.Error(1)
}

func (m *MockPostManager) ListPosts(page, limit int) ([]service.PostView, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]service.PostView), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostManager) ListFriendPosts(userID uint, page, limit int) ([]service.PostView, int64, error) {
	args := m.Called(userID, page, limit)
	return args.Get(0).([]service.PostView), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostManager) ListUserPosts(userID uint, page, limit int) ([]service.PostView, int64, error) {
	args := m.Called(userID, page, limit)
	return args.Get(0).([]service.PostView), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostManager) GetPost(id uint) (*service.PostView, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostView), args.Error(1)
}

func (m *MockPostManager) OpenImage(ctx context.Context, postID uint) (io.ReadCloser, string, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *MockPostManager) React(ctx context.Context, userID, postID uint, reactionType model.ReactionType) (*service.ReactionResult, error) {
	args := m.Called(ctx, userID, postID, reactionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReactionResult), args.Error(1)
}

type MockAttemptTracker struct {
	mock.Mock
}

func (m *MockAttemptTracker) StartAttempt(ctx context.Context, userID, questID uint) (*model.QuestAttempt, error) {
	args := m.Called(ctx, userID, questID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuestAttempt), args.Error(1)
}

func (m *MockAttemptTracker) CompleteAttempt(ctx context.Context, userID, questID uint) (*service.CompletionResult, error) {
	args := m.Called(ctx, userID, questID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CompletionResult), args.Error(1)
}

func (m *MockAttemptTracker) ListUserAttempts(userID uint) ([]model.QuestAttempt, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.QuestAttempt), args.Error(1)
}

func (m *MockAttemptTracker) DeleteAttempt(ctx context.Context, postID, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

// withUser 模拟鉴权中间件写入的登录用户
func withUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != 0 {
			c.Set("user", &util.Claims{UserID: userID, Username: "tester", Role: model.RoleUser})
		}
		c.Next()
	}
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorKind(t *testing.T, resp apiResponse) util.ErrorKind {
	t.Helper()
	var data struct {
		Kind util.ErrorKind `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.Kind
}

type MockAchievementManager struct {
	mock.Mock
}

func (m *MockAchievementManager) EvaluateAndAward(ctx context.Context, userID uint) ([]model.Achievement, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Achievement), args.Error(1)
}

func (m *MockAchievementManager) ListCatalog() ([]model.Achievement, error) {
	args := m.Called()
	return args.Get(0).([]model.Achievement), args.Error(1)
}

func (m *MockAchievementManager) ListUserAchievements(userID uint) ([]model.UserAchievement, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.UserAchievement), args.Error(1)
}

func (m *MockAchievementManager) GetLeaderboard(limit int) ([]service.LeaderboardEntry, error) {
	args := m.Called(limit)
	return args.Get(0).([]service.LeaderboardEntry), args.Error(1)
}

func (m *MockAchievementManager) GetProfile(ctx context.Context, userID uint) (*service.ProfileStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileStats), args.Error(1)
}
