package mongostore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/store"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestCollection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list decodes every document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "a"},
				{Key: "content-info", Value: bson.D{{Key: "title", Value: "Hi"}, {Key: "uuid", Value: "a"}}},
				{Key: "body", Value: bson.D{{Key: "article-content", Value: "# hi"}}},
			},
			bson.D{
				{Key: "_id", Value: "b"},
				{Key: "content-info", Value: bson.D{{Key: "title", Value: "sup"}, {Key: "uuid", Value: "b"}}},
			},
		))

		docs, err := NewCollection[model.Article](mt.Coll).List(ctx)
		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		assert.Equal(mt, "Hi", docs[0].ContentInfo.Title)
		assert.Equal(mt, "# hi", docs[0].Body.ArticleContent)
		assert.Equal(mt, "sup", docs[1].ContentInfo.Title)
		assert.Nil(mt, docs[1].Body)
	})

	mt.Run("list of empty collection is empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		docs, err := NewCollection[model.Article](mt.Coll).List(ctx)
		require.NoError(mt, err)
		assert.Empty(mt, docs)
	})

	mt.Run("get found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "a"},
			{Key: "content-info", Value: bson.D{{Key: "slug", Value: "hello-world"}}},
		}))

		doc, err := NewCollection[model.Article](mt.Coll).Get(ctx, "a")
		require.NoError(mt, err)
		assert.Equal(mt, "hello-world", doc.ContentInfo.Slug)
	})

	mt.Run("get missing is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := NewCollection[model.Article](mt.Coll).Get(ctx, "nope")
		require.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("get backend failure is not not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		_, err := NewCollection[model.Article](mt.Coll).Get(ctx, "a")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("put upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewCollection[model.Article](mt.Coll).Put(ctx, "a", model.Article{})
		require.NoError(mt, err)
	})

	mt.Run("update missing is not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewCollection[model.Article](mt.Coll).Update(ctx, "a", model.Article{})
		require.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("update existing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := NewCollection[model.Article](mt.Coll).Update(ctx, "a", model.Article{})
		require.NoError(mt, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		c := NewCollection[model.Article](mt.Coll)
		require.NoError(mt, c.Delete(ctx, "a"))
		require.ErrorIs(mt, c.Delete(ctx, "a"), store.ErrNotFound)
	})
}
