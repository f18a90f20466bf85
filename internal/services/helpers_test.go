package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/intern-management-api/internal/config"
	"github.com/yukikurage/intern-management-api/internal/database"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/repository"
)

// newTestStore opens a migrated in-memory SQLite store.
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()

	db, err := database.Connect(&config.Config{StorageDriver: config.DriverSQLite, SQLitePath: ":memory:", LogLevel: "error"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	store := repository.NewGormStore(db)
	t.Cleanup(func() {
		store.Close(context.Background())
	})
	return store
}

func seedUser(t *testing.T, store *repository.Store, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		ID:           email,
		Email:        email,
		PasswordHash: "hashedpassword",
		Name:         "Test",
		Surname:      email,
		Role:         role,
	}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}
