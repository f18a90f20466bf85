package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/intern-management-api/internal/config"
	"github.com/yukikurage/intern-management-api/internal/database"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/utils"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Connect(&config.Config{StorageDriver: config.DriverSQLite, SQLitePath: ":memory:", LogLevel: "error"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	store := NewGormStore(db)
	t.Cleanup(func() {
		store.Close(context.Background())
	})
	return store
}

func createTask(t *testing.T, store *Store, id, owner string, status models.TaskStatus) *models.Task {
	t.Helper()

	task := &models.Task{ID: id, Header: "h-" + id, Details: "d", Status: status, Owner: owner}
	require.NoError(t, store.Tasks.Create(context.Background(), task))
	return task
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	require.NoError(t, store.Users.Create(ctx, &models.User{ID: "1", Email: "a@x.com", PasswordHash: "h", Role: models.RoleIntern}))
	err := store.Users.Create(ctx, &models.User{ID: "2", Email: "a@x.com", PasswordHash: "h", Role: models.RoleIntern})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.Users.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_ListByRole(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		require.NoError(t, store.Users.Create(ctx, &models.User{ID: email, Email: email, PasswordHash: "h", Role: models.RoleIntern}))
	}
	require.NoError(t, store.Users.Create(ctx, &models.User{ID: "boss", Email: "boss@x.com", PasswordHash: "h", Role: models.RoleAdmin}))

	users, total, err := store.Users.ListByRole(ctx, models.RoleIntern, utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 1)
	assert.Equal(t, "c@x.com", users[0].Email)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	createTask(t, store, "t1", "a@x.com", models.TaskStatusUndone)
	createTask(t, store, "t2", "b@x.com", models.TaskStatusUndone)
	createTask(t, store, "t3", "b@x.com", models.TaskStatusDone)

	owner := "b@x.com"
	tasks, err := store.Tasks.List(ctx, TaskFilter{Owner: &owner})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	status := models.TaskStatusUndone
	exclude := "a@x.com"
	tasks, err = store.Tasks.List(ctx, TaskFilter{Status: &status, ExcludeOwner: &exclude})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t2", tasks[0].ID)

	tasks, err = store.Tasks.List(ctx, TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestTaskRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	createTask(t, store, "t1", "a@x.com", models.TaskStatusUndone)

	other := "b@x.com"
	assert.ErrorIs(t, store.Tasks.UpdateStatus(ctx, "t1", models.TaskStatusDone, &other), ErrNotFound)

	owner := "a@x.com"
	require.NoError(t, store.Tasks.UpdateStatus(ctx, "t1", models.TaskStatusDone, &owner))
	assert.ErrorIs(t, store.Tasks.UpdateStatus(ctx, "t1", models.TaskStatusDone, nil), ErrNotFound)
	assert.ErrorIs(t, store.Tasks.UpdateStatus(ctx, "missing", models.TaskStatusDone, nil), ErrNotFound)

	task, err := store.Tasks.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, task.Status)
}

func TestTaskRepository_Claim(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	createTask(t, store, "t1", "a@x.com", models.TaskStatusUndone)

	assert.ErrorIs(t, store.Tasks.Claim(ctx, "t1", "a@x.com"), ErrNotFound)
	require.NoError(t, store.Tasks.Claim(ctx, "t1", "b@x.com"))
	assert.ErrorIs(t, store.Tasks.Claim(ctx, "t1", "c@x.com"), ErrNotFound)

	task, err := store.Tasks.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", task.Owner)
	assert.Equal(t, models.TaskStatusTaken, task.Status)
}

func TestTaskRepository_UpdateAndSetProject(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	createTask(t, store, "t1", "a@x.com", models.TaskStatusUndone)
	require.NoError(t, store.Projects.Create(ctx, &models.Project{ID: "p1", Name: "P"}))

	task, err := store.Tasks.SetProject(ctx, "t1", "p1")
	require.NoError(t, err)
	require.NotNil(t, task.ProjectID)
	assert.Equal(t, "p1", *task.ProjectID)

	header, owner := "new", "b@x.com"
	task, err = store.Tasks.Update(ctx, "t1", TaskUpdate{Header: &header, Owner: &owner})
	require.NoError(t, err)
	assert.Equal(t, "new", task.Header)
	assert.Equal(t, "d", task.Details)
	assert.Equal(t, models.TaskStatusUndone, task.Status)
	assert.Equal(t, "b@x.com", task.Owner)
	require.NotNil(t, task.ProjectID)

	task, err = store.Tasks.Update(ctx, "t1", TaskUpdate{ClearProject: true})
	require.NoError(t, err)
	assert.Nil(t, task.ProjectID)

	_, err = store.Tasks.Update(ctx, "missing", TaskUpdate{Header: &header})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Tasks.SetProject(ctx, "missing", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepository_UpdateLeavesOtherFields(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	createTask(t, store, "t1", "a@x.com", models.TaskStatusUndone)

	owner := "a@x.com"
	require.NoError(t, store.Tasks.UpdateStatus(ctx, "t1", models.TaskStatusDone, &owner))

	newOwner := "b@x.com"
	task, err := store.Tasks.Update(ctx, "t1", TaskUpdate{Owner: &newOwner})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, task.Status)
	assert.Equal(t, "b@x.com", task.Owner)
}

func TestTaskRepository_Delete(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	createTask(t, store, "t1", "a@x.com", models.TaskStatusUndone)

	require.NoError(t, store.Tasks.Delete(ctx, "t1"))
	_, err := store.Tasks.FindByID(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Tasks.Delete(ctx, "t1"), ErrNotFound)
}

func TestProjectRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	require.NoError(t, store.Projects.Create(ctx, &models.Project{ID: "p1", Name: "P", Description: "old", Status: "active"}))
	task := createTask(t, store, "t1", "a@x.com", models.TaskStatusUndone)
	_, err := store.Tasks.SetProject(ctx, task.ID, "p1")
	require.NoError(t, err)

	project := &models.Project{ID: "p1", Name: "P2", Status: "closed"}
	require.NoError(t, store.Projects.Update(ctx, project))
	assert.Equal(t, "P2", project.Name)
	assert.Empty(t, project.Description)
	assert.False(t, project.CreatedAt.IsZero())

	assert.ErrorIs(t, store.Projects.Update(ctx, &models.Project{ID: "missing", Name: "x"}), ErrNotFound)

	require.NoError(t, store.Projects.Delete(ctx, "p1"))
	assert.ErrorIs(t, store.Projects.Delete(ctx, "p1"), ErrNotFound)

	detached, err := store.Tasks.FindByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, detached.ProjectID)

	projects, err := store.Projects.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
