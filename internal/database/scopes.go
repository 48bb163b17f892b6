package database

import (
	"math"

	"gorm.io/gorm"
)

// Paginate applies skip/limit to a GORM query. Non-positive values mean no bound.
func Paginate(skip, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			// OFFSET needs a LIMIT on MySQL and SQLite
			if limit <= 0 {
				limit = math.MaxInt32
			}
			db = db.Offset(skip)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
