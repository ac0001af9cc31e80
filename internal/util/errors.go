package util

import (
	"errors"
	"net/http"
)

// ErrorKind 稳定的错误类型标识，会原样返回给客户端
type ErrorKind string

const (
	KindUnauthorized          ErrorKind = "unauthorized"
	KindTokenExpired          ErrorKind = "token_expired"
	KindUserNotFound          ErrorKind = "user_not_found"
	KindEmailRegistered       ErrorKind = "email_registered"
	KindUsernameTaken         ErrorKind = "username_taken"
	KindInvalidCredentials    ErrorKind = "invalid_credentials"
	KindPermissionDenied      ErrorKind = "permission_denied"
	KindQuestNotFound         ErrorKind = "quest_not_found"
	KindQuestHasAttempts      ErrorKind = "quest_has_attempts"
	KindAttemptNotFound       ErrorKind = "attempt_not_found"
	KindDuplicateAttempt      ErrorKind = "duplicate_attempt"
	KindAlreadySubmitted      ErrorKind = "already_submitted"
	KindAlreadyCompleted      ErrorKind = "already_completed"
	KindInvalidCaption        ErrorKind = "invalid_caption"
	KindInvalidImage          ErrorKind = "invalid_image"
	KindFileTooLarge          ErrorKind = "file_too_large"
	KindPostNotFound          ErrorKind = "post_not_found"
	KindNotPostOwner          ErrorKind = "not_post_owner"
	KindInvalidReaction       ErrorKind = "invalid_reaction"
	KindNotDoneYet            ErrorKind = "not_done_yet"
	KindSelfVerification      ErrorKind = "self_verification"
	KindDuplicateVerification ErrorKind = "duplicate_verification"
	KindSelfFriendship        ErrorKind = "self_friendship"
	KindAlreadyFriends        ErrorKind = "already_friends"
	KindNotFriends            ErrorKind = "not_friends"
)

// AppError 业务错误，Status 为对应的 HTTP 状态码
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches any AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == e.Kind
}

func NewAppError(kind ErrorKind, status int, message string) *AppError {
	return &AppError{Kind: kind, Status: status, Message: message}
}

// AsAppError 解包出 AppError，不是业务错误时返回 nil
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

var (
	ErrUnauthorized          = NewAppError(KindUnauthorized, http.StatusUnauthorized, "unauthorized")
	ErrTokenExpired          = NewAppError(KindTokenExpired, http.StatusUnauthorized, "token expired")
	ErrUserNotFound          = NewAppError(KindUserNotFound, http.StatusNotFound, "user not found")
	ErrEmailRegistered       = NewAppError(KindEmailRegistered, http.StatusConflict, "email already registered")
	ErrUsernameTaken         = NewAppError(KindUsernameTaken, http.StatusConflict, "username already taken")
	ErrInvalidCredentials    = NewAppError(KindInvalidCredentials, http.StatusUnauthorized, "invalid email or password")
	ErrPermissionDenied      = NewAppError(KindPermissionDenied, http.StatusForbidden, "permission denied")
	ErrQuestNotFound         = NewAppError(KindQuestNotFound, http.StatusNotFound, "quest not found")
	ErrQuestHasAttempts      = NewAppError(KindQuestHasAttempts, http.StatusConflict, "quest already has attempts")
	ErrAttemptNotFound       = NewAppError(KindAttemptNotFound, http.StatusNotFound, "attempt not found")
	ErrDuplicateAttempt      = NewAppError(KindDuplicateAttempt, http.StatusConflict, "quest already started")
	ErrAlreadySubmitted      = NewAppError(KindAlreadySubmitted, http.StatusConflict, "you already posted for this quest")
	ErrAlreadyCompleted      = NewAppError(KindAlreadyCompleted, http.StatusConflict, "quest already completed")
	ErrInvalidCaption        = NewAppError(KindInvalidCaption, http.StatusBadRequest, "caption must be at most 255 characters")
	ErrInvalidImage          = NewAppError(KindInvalidImage, http.StatusBadRequest, "image must be a valid JPEG or PNG")
	ErrFileTooLarge          = NewAppError(KindFileTooLarge, http.StatusRequestEntityTooLarge, "image exceeds the upload limit")
	ErrPostNotFound          = NewAppError(KindPostNotFound, http.StatusNotFound, "post not found")
	ErrNotPostOwner          = NewAppError(KindNotPostOwner, http.StatusForbidden, "only the author can delete this post")
	ErrInvalidReaction       = NewAppError(KindInvalidReaction, http.StatusBadRequest, "reaction must be like or dislike")
	ErrNotDoneYet            = NewAppError(KindNotDoneYet, http.StatusBadRequest, "quest attempt is not completed yet")
	ErrSelfVerification      = NewAppError(KindSelfVerification, http.StatusBadRequest, "you cannot verify your own quest")
	ErrDuplicateVerification = NewAppError(KindDuplicateVerification, http.StatusConflict, "you already verified this quest")
	ErrSelfFriendship        = NewAppError(KindSelfFriendship, http.StatusBadRequest, "cannot add yourself as a friend")
	ErrAlreadyFriends        = NewAppError(KindAlreadyFriends, http.StatusConflict, "already friends")
	ErrNotFriends            = NewAppError(KindNotFriends, http.StatusNotFound, "not friends")
)
