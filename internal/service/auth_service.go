package service

import (
	"campus_quest_backend/internal/config"
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/repository"
	"campus_quest_backend/internal/util"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(req *RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	emailTaken, usernameTaken, err := s.UserRepo.ExistsByEmailOrUsername(email, username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, util.ErrEmailRegistered
	}
	if usernameTaken {
		return nil, util.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.RoleUser,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUser(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
