package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          string         `gorm:"type:varchar(36);primarykey" bson:"_id" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" bson:"name" json:"name"`
	Description string         `gorm:"type:text" bson:"description" json:"description"`
	Status      string         `gorm:"type:varchar(50)" bson:"status" json:"status"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" bson:"-" json:"-"`
}
