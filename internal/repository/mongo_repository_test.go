package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// nextCommand pops the command document of the oldest recorded operation
func nextCommand(mt *mtest.T) bson.Raw {
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	return evt.Command
}

func writeResult(matched, modified int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: modified},
	)
}

func taskDocument(id, owner string, status models.TaskStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "header", Value: "h"},
		{Key: "details", Value: "d"},
		{Key: "status", Value: string(status)},
		{Key: "owner", Value: owner},
	}
}

func TestMongoTaskRepository_UpdateStatus(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("unchanged value modifies nothing", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(writeResult(1, 0))

		owner := "a@x.com"
		err := repo.UpdateStatus(ctx, "t1", models.TaskStatusDone, &owner)
		assert.ErrorIs(mt, err, ErrNotFound)

		cmd := nextCommand(mt)
		assert.Equal(mt, "t1", cmd.Lookup("updates", "0", "q", "_id").StringValue())
		assert.Equal(mt, "yapildi", cmd.Lookup("updates", "0", "q", "status", "$ne").StringValue())
		assert.Equal(mt, "a@x.com", cmd.Lookup("updates", "0", "q", "owner").StringValue())
	})

	mt.Run("admin update has no owner scope", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(writeResult(1, 1))

		require.NoError(mt, repo.UpdateStatus(ctx, "t1", models.TaskStatusDone, nil))

		_, err := nextCommand(mt).LookupErr("updates", "0", "q", "owner")
		assert.Error(mt, err)
	})
}

func TestMongoTaskRepository_Claim(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("claims an undone task of someone else", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(writeResult(1, 1))

		require.NoError(mt, repo.Claim(ctx, "t1", "b@x.com"))

		cmd := nextCommand(mt)
		assert.Equal(mt, "undone", cmd.Lookup("updates", "0", "q", "status").StringValue())
		assert.Equal(mt, "b@x.com", cmd.Lookup("updates", "0", "q", "owner", "$ne").StringValue())
		assert.Equal(mt, "b@x.com", cmd.Lookup("updates", "0", "u", "$set", "owner").StringValue())
		assert.Equal(mt, "taken", cmd.Lookup("updates", "0", "u", "$set", "status").StringValue())
	})

	mt.Run("nothing claimable", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(writeResult(0, 0))

		assert.ErrorIs(mt, repo.Claim(ctx, "t1", "b@x.com"), ErrNotFound)
	})
}

func TestMongoTaskRepository_Update(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("sets only provided fields", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: taskDocument("t1", "b@x.com", models.TaskStatusDone)},
		))

		owner := "b@x.com"
		task, err := repo.Update(ctx, "t1", TaskUpdate{Owner: &owner})
		require.NoError(mt, err)
		assert.Equal(mt, "b@x.com", task.Owner)
		assert.Equal(mt, models.TaskStatusDone, task.Status)

		cmd := nextCommand(mt)
		assert.Equal(mt, "b@x.com", cmd.Lookup("update", "$set", "owner").StringValue())
		for _, field := range []string{"status", "header", "details", "project_id"} {
			_, err := cmd.LookupErr("update", "$set", field)
			assert.Error(mt, err, field)
		}
		_, err = cmd.LookupErr("update", "$unset")
		assert.Error(mt, err)
	})

	mt.Run("clearing the project unsets it", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: taskDocument("t1", "a@x.com", models.TaskStatusUndone)},
		))

		task, err := repo.Update(ctx, "t1", TaskUpdate{ClearProject: true})
		require.NoError(mt, err)
		assert.Nil(mt, task.ProjectID)

		_, err = nextCommand(mt).LookupErr("update", "$unset", "project_id")
		assert.NoError(mt, err)
	})

	mt.Run("missing task", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		header := "x"
		_, err := repo.Update(ctx, "missing", TaskUpdate{Header: &header})
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestTaskUpdateDocument(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	project := "p1"
	status := models.TaskStatusTodo

	assert.Equal(t, bson.M{"$set": bson.M{"updated_at": now}}, taskUpdateDocument(TaskUpdate{}, now))
	assert.Equal(t, bson.M{
		"$set": bson.M{"updated_at": now, "status": status, "project_id": project},
	}, taskUpdateDocument(TaskUpdate{Status: &status, ProjectID: &project}, now))
	assert.Equal(t, bson.M{
		"$set":   bson.M{"updated_at": now},
		"$unset": bson.M{"project_id": ""},
	}, taskUpdateDocument(TaskUpdate{ClearProject: true}, now))
}

func TestMongoTaskRepository_ListAndDelete(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("list decodes the batch", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			taskDocument("t1", "a@x.com", models.TaskStatusUndone),
			taskDocument("t2", "a@x.com", models.TaskStatusTaken),
		))

		owner := "a@x.com"
		tasks, err := repo.List(ctx, TaskFilter{Owner: &owner})
		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, "t2", tasks[1].ID)
		assert.Equal(mt, "a@x.com", nextCommand(mt).Lookup("filter", "owner", "$eq").StringValue())
	})

	mt.Run("delete of a missing task", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		assert.ErrorIs(mt, repo.Delete(ctx, "missing"), ErrNotFound)
	})
}

func TestMongoProjectRepository_Delete(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("clears task references", func(mt *mtest.T) {
		repo := NewMongoProjectRepository(mt.DB.Collection(ProjectsCollection), mt.DB.Collection(TasksCollection))
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}),
			writeResult(2, 2),
		)

		require.NoError(mt, repo.Delete(ctx, "p1"))

		deleteCmd := nextCommand(mt)
		assert.Equal(mt, ProjectsCollection, deleteCmd.Lookup("delete").StringValue())
		assert.Equal(mt, "p1", deleteCmd.Lookup("deletes", "0", "q", "_id").StringValue())

		updateCmd := nextCommand(mt)
		assert.Equal(mt, TasksCollection, updateCmd.Lookup("update").StringValue())
		assert.Equal(mt, "p1", updateCmd.Lookup("updates", "0", "q", "project_id").StringValue())
		assert.True(mt, updateCmd.Lookup("updates", "0", "multi").Boolean())
		_, err := updateCmd.LookupErr("updates", "0", "u", "$unset", "project_id")
		assert.NoError(mt, err)
	})

	mt.Run("missing project leaves tasks alone", func(mt *mtest.T) {
		repo := NewMongoProjectRepository(mt.DB.Collection(ProjectsCollection), mt.DB.Collection(TasksCollection))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		assert.ErrorIs(mt, repo.Delete(ctx, "missing"), ErrNotFound)
		nextCommand(mt)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestMongoUserRepository(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("update profile of unknown user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(writeResult(0, 0))

		err := repo.UpdateProfile(ctx, &models.User{Email: "ghost@x.com", Name: "G"})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update profile with identical values still matches", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(writeResult(1, 0))

		require.NoError(mt, repo.UpdateProfile(ctx, &models.User{Email: "a@x.com", Name: "A"}))
		assert.Equal(mt, "a@x.com", nextCommand(mt).Lookup("updates", "0", "q", "email").StringValue())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		err := repo.Create(ctx, &models.User{ID: "u1", Email: "a@x.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByEmail(ctx, "ghost@x.com")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("list interns page", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "u2"}, {Key: "email", Value: "b@x.com"}, {Key: "role", Value: "intern"}},
			),
		)

		users, total, err := repo.ListByRole(ctx, models.RoleIntern, utils.PaginationParams{Page: 2, Limit: 1, Offset: 1})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), total)
		require.Len(mt, users, 1)
		assert.Equal(mt, "b@x.com", users[0].Email)

		nextCommand(mt)
		findCmd := nextCommand(mt)
		assert.Equal(mt, int64(1), findCmd.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(1), findCmd.Lookup("limit").AsInt64())
	})
}
