package models

import (
	"time"
)

type Task struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Description string    `gorm:"type:text;not null" bson:"description" json:"description"`
	Completed   bool      `gorm:"not null;default:false" bson:"completed" json:"completed"`
	Owner       string    `gorm:"type:varchar(36);index;not null" bson:"owner" json:"owner"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}
