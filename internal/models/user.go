package models

import (
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	Age       int       `gorm:"not null;default:0" bson:"age" json:"age"`
	Password  string    `gorm:"type:varchar(255);not null" bson:"password" json:"-"`
	Avatar    []byte    `bson:"avatar,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`

	// Relations
	Tokens []UserToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" bson:"tokens" json:"-"`
}

// HasToken reports whether token is one of the user's live session tokens.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t.Token == token {
			return true
		}
	}
	return false
}
