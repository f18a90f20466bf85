package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/intern-management-api/internal/utils"
)

// Paginate applies pagination to a GORM query. Unbounded params leave the query as is.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Unbounded() {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
