package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/intern-management-api/internal/models"
	"gorm.io/gorm"
)

type index struct {
	model   interface{}
	table   string
	name    string
	columns []string
}

// Lookup indexes for the task visibility and claim queries.
var indexes = []index{
	{&models.Task{}, "tasks", "idx_tasks_owner", []string{"owner"}},
	{&models.Task{}, "tasks", "idx_tasks_project_id", []string{"project_id"}},
	{&models.Task{}, "tasks", "idx_tasks_status_owner", []string{"status", "owner"}},
}

// AddIndexes creates missing indexes; existing ones are left untouched.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
