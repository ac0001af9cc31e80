package model

import (
	"time"
)

// BaseModel omits gorm.DeletedAt: rows covered by unique indexes must be
// hard-deleted or a retracted submission would block a new one.
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
