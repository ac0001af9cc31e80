package controller

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newVerificationRouter(svc QuestVerifier, userID uint) *gin.Engine {
	r := gin.New()
	c := NewVerificationController(svc)
	g := r.Group("/api", withUser(userID))
	g.POST("/quest/verify/:questId/:targetUserId", c.Verify)
	g.GET("/quest/verify/:questId/:targetUserId", c.Status)
	return r
}

func TestVerificationController_Verify(t *testing.T) {
	tests := []struct {
		name           string
		userID         uint
		path           string
		mockSetup      func(*MockQuestVerifier)
		expectedStatus int
		expectedKind   util.ErrorKind
	}{
		{
			name:   "vote accepted",
			userID: 2,
			path:   "/api/quest/verify/5/1",
			mockSetup: func(m *MockQuestVerifier) {
				m.On("VerifyUserQuest", mock.Anything, uint(5), uint(1), uint(2)).
					Return(&service.VerificationResult{
						AttemptID:         9,
						VerificationCount: 2,
						IsVerified:        true,
						JustVerified:      true,
						NewAchievements:   []model.Achievement{{ID: 14}},
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "self verification",
			userID: 1,
			path:   "/api/quest/verify/5/1",
			mockSetup: func(m *MockQuestVerifier) {
				m.On("VerifyUserQuest", mock.Anything, uint(5), uint(1), uint(1)).
					Return(nil, util.ErrSelfVerification)
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   util.KindSelfVerification,
		},
		{
			name:   "duplicate vote",
			userID: 2,
			path:   "/api/quest/verify/5/1",
			mockSetup: func(m *MockQuestVerifier) {
				m.On("VerifyUserQuest", mock.Anything, uint(5), uint(1), uint(2)).
					Return(nil, util.ErrDuplicateVerification)
			},
			expectedStatus: http.StatusConflict,
			expectedKind:   util.KindDuplicateVerification,
		},
		{
			name:   "not done yet",
			userID: 2,
			path:   "/api/quest/verify/5/1",
			mockSetup: func(m *MockQuestVerifier) {
				m.On("VerifyUserQuest", mock.Anything, uint(5), uint(1), uint(2)).
					Return(nil, util.ErrNotDoneYet)
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   util.KindNotDoneYet,
		},
		{
			name:   "unexpected failure",
			userID: 2,
			path:   "/api/quest/verify/5/1",
			mockSetup: func(m *MockQuestVerifier) {
				m.On("VerifyUserQuest", mock.Anything, uint(5), uint(1), uint(2)).
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "invalid path id",
			userID:         2,
			path:           "/api/quest/verify/abc/1",
			mockSetup:      func(m *MockQuestVerifier) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "anonymous",
			path:           "/api/quest/verify/5/1",
			mockSetup:      func(m *MockQuestVerifier) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockQuestVerifier)
			tt.mockSetup(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			newVerificationRouter(svc, tt.userID).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.expectedStatus, resp.Code)
			if tt.expectedKind != "" {
				assert.Equal(t, tt.expectedKind, errorKind(t, resp))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestVerificationController_VerifyPayload(t *testing.T) {
	svc := new(MockQuestVerifier)
	svc.On("VerifyUserQuest", mock.Anything, uint(3), uint(4), uint(7)).
		Return(&service.VerificationResult{AttemptID: 12, VerificationCount: 1, NewAchievements: []model.Achievement{}}, nil)

	w := httptest.NewRecorder()
	newVerificationRouter(svc, 7).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quest/verify/3/4", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var result service.VerificationResult
	require.NoError(t, json.Unmarshal(decodeResponse(t, w).Data, &result))
	assert.Equal(t, uint(12), result.AttemptID)
	assert.Equal(t, int64(1), result.VerificationCount)
	assert.False(t, result.IsVerified)
}

func TestVerificationController_Status(t *testing.T) {
	svc := new(MockQuestVerifier)
	svc.On("GetStatus", uint(3), uint(4), uint(7)).
		Return(&service.VerificationStatus{AttemptID: 12, IsDone: true, VerificationCount: 1, VerifiedByMe: true}, nil)
	svc.On("GetStatus", uint(3), uint(8), uint(7)).
		Return(nil, util.ErrAttemptNotFound)

	w := httptest.NewRecorder()
	newVerificationRouter(svc, 7).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quest/verify/3/4", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status service.VerificationStatus
	require.NoError(t, json.Unmarshal(decodeResponse(t, w).Data, &status))
	assert.True(t, status.VerifiedByMe)

	w = httptest.NewRecorder()
	newVerificationRouter(svc, 7).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quest/verify/3/8", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, util.KindAttemptNotFound, errorKind(t, decodeResponse(t, w)))
}
