package models

import "time"

// UserToken is one issued session token. Relational stores keep tokens in
// their own table; document stores embed them in the user document.
type UserToken struct {
	ID        uint64    `gorm:"primarykey" bson:"-" json:"-"`
	UserID    string    `gorm:"type:varchar(36);index;not null" bson:"-" json:"-"`
	Token     string    `gorm:"type:varchar(512);index;not null" bson:"token" json:"token"`
	CreatedAt time.Time `bson:"createdAt" json:"-"`
}
