package repository

import (
	"campus_quest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储副本
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) ExistsByEmailOrUsername(email, username string) (emailTaken, usernameTaken bool, err error) {
	var users []model.User
	err = r.DB.Select("id", "email", "username").
		Where("email = ? OR username = ?", email, username).
		Find(&users).Error
	for _, u := range users {
		emailTaken = emailTaken || u.Email == email
		usernameTaken = usernameTaken || u.Username == username
	}
	return
}

func (r *UserRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// LockByID 读取并锁定用户行（SELECT ... FOR UPDATE），需在事务中调用
func (r *UserRepository) LockByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) AddTokens(userID uint, tokens int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("tokens", gorm.Expr("tokens + ?", tokens)).
		Error
}

func (r *UserRepository) FindTopByTokens(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("tokens DESC").Order("id ASC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByIDs(ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.Where("id IN ?", ids).Order("username ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) FindAllIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.User{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
