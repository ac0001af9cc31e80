package model

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email    string   `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:16;default:'user'" json:"role"`
	Tokens   int      `gorm:"not null;default:0" json:"tokens"`
}

func (User) TableName() string {
	return "users"
}
