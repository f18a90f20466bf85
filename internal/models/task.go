package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusUndone    TaskStatus = "undone"
	TaskStatusTodo      TaskStatus = "yapilacaklar"
	TaskStatusInTesting TaskStatus = "test_asamasi"
	TaskStatusDone      TaskStatus = "yapildi"
	TaskStatusTaken     TaskStatus = "taken"
)

// TaskStatuses lists the accepted status vocabulary. Any status may follow any other.
var TaskStatuses = []TaskStatus{
	TaskStatusUndone,
	TaskStatusTodo,
	TaskStatusInTesting,
	TaskStatusDone,
	TaskStatusTaken,
}

// Valid reports whether s belongs to the status vocabulary.
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Task struct {
	ID        string         `gorm:"type:varchar(36);primarykey" bson:"_id" json:"id"`
	Header    string         `gorm:"type:varchar(255);not null" bson:"header" json:"header"`
	Details   string         `gorm:"type:text" bson:"details" json:"details"`
	Status    TaskStatus     `gorm:"type:varchar(20);not null;default:'undone'" bson:"status" json:"status"`
	ProjectID *string        `gorm:"type:varchar(36)" bson:"project_id,omitempty" json:"project_id"`
	Owner     string         `gorm:"type:varchar(255);not null" bson:"owner" json:"owner"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" bson:"-" json:"-"`
}
