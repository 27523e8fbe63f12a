package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lesson-market/internal/models"
	"lesson-market/internal/search"
)

func TestLessons(t *testing.T) {
	ctx := context.Background()
	oid := primitive.NewObjectID()
	repo := NewLessons(
		bson.M{"_id": oid, "subject": "Math", "location": "London", "price": int64(15), "spaces": int64(8)},
		bson.M{"_id": "art-1", "subject": "Art", "location": "Leeds", "price": int64(10), "spaces": int64(5)},
	)

	t.Run("find all keeps insertion order", func(t *testing.T) {
		docs, err := repo.Find(ctx, search.Filter{})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "Math", docs[0]["subject"])
		assert.Equal(t, "Art", docs[1]["subject"])
	})

	t.Run("returned documents are copies", func(t *testing.T) {
		docs, err := repo.Find(ctx, search.Filter{})
		require.NoError(t, err)
		docs[0]["subject"] = "changed"

		again, err := repo.Find(ctx, search.Parse("math"))
		require.NoError(t, err)
		assert.Len(t, again, 1)
	})

	t.Run("update by object id", func(t *testing.T) {
		res, err := repo.Update(ctx, models.ParseLessonID(oid.Hex()), bson.M{"spaces": int64(7)})
		require.NoError(t, err)
		assert.Equal(t, models.UpdateResult{Matched: 1, Modified: 1}, res)

		res, err = repo.Update(ctx, models.ParseLessonID(oid.Hex()), bson.M{"spaces": int64(7)})
		require.NoError(t, err)
		assert.Equal(t, models.UpdateResult{Matched: 1, Modified: 0}, res)
	})

	t.Run("update by string id", func(t *testing.T) {
		res, err := repo.Update(ctx, models.ParseLessonID("art-1"), bson.M{"tutor": "Ms. Lee"})
		require.NoError(t, err)
		assert.Equal(t, models.UpdateResult{Matched: 1, Modified: 1}, res)

		docs, err := repo.Find(ctx, search.Parse("art"))
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Ms. Lee", docs[0]["tutor"])
		assert.Equal(t, int64(10), docs[0]["price"])
	})

	t.Run("update missing id", func(t *testing.T) {
		res, err := repo.Update(ctx, models.ParseLessonID(primitive.NewObjectID().Hex()), bson.M{"spaces": int64(1)})
		require.NoError(t, err)
		assert.Equal(t, models.UpdateResult{}, res)
	})

	t.Run("seed replaces", func(t *testing.T) {
		n, err := repo.Seed(ctx, []models.Lesson{{Subject: "PE", Location: "Bath", Price: 9, Spaces: 5}}, false)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		docs, err := repo.Find(ctx, search.Filter{})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "PE", docs[0]["subject"])
		assert.IsType(t, primitive.ObjectID{}, docs[0]["_id"])
	})
}

func TestOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewOrders()

	id, err := repo.Insert(ctx, bson.M{"name": "Jo", "phone": "123", "items": []any{"Math"}})
	require.NoError(t, err)
	assert.IsType(t, primitive.ObjectID{}, id)
	assert.Equal(t, 1, repo.Len())

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jo", got["name"])
	assert.Equal(t, []any{"Math"}, got["items"])

	_, err = repo.Get(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}
