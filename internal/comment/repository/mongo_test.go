package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongoRepo(mt *mtest.T) *MongoRepo {
	mt.AddMockResponses(mtest.CreateSuccessResponse()) // createIndexes
	r, err := NewMongoRepo(context.Background(), mt.DB)
	require.NoError(mt, err)
	return r
}

func seqResponse(seq int64) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
		{Key: "_id", Value: counterID},
		{Key: "seq", Value: seq},
	}})
}

func commentDoc(id int64, content string, at time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "content", Value: content},
		{Key: "created_at", Value: at},
	}
}

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("append round trip", func(mt *mtest.T) {
		r := newMockMongoRepo(mt)
		at := time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.FixedZone("X", 3600))
		r.now = func() time.Time { return at }

		mt.AddMockResponses(seqResponse(7), mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		c, err := r.Append(context.Background(), "First comment")
		require.NoError(mt, err)
		require.Equal(mt, int64(7), c.ID)
		require.Equal(mt, "First comment", c.Content)
		require.Equal(mt, time.UTC, c.CreatedAt.Location())
		require.True(mt, c.CreatedAt.Equal(at.Truncate(time.Millisecond)))

		started := mt.GetAllStartedEvents()
		var sawInc, sawInsert bool
		for _, evt := range started {
			switch evt.CommandName {
			case "findAndModify":
				sawInc = true
				require.True(mt, evt.Command.Lookup("upsert").Boolean())
				_, ok := evt.Command.Lookup("update").Document().Lookup("$inc").DocumentOK()
				require.True(mt, ok)
			case "insert":
				sawInsert = true
				docs, err := evt.Command.Lookup("documents").Array().Values()
				require.NoError(mt, err)
				require.Len(mt, docs, 1)
				doc := docs[0].Document()
				require.Equal(mt, int64(7), doc.Lookup("_id").Int64())
				require.Equal(mt, "First comment", doc.Lookup("content").StringValue())
			}
		}
		require.True(mt, sawInc, "id not taken from the counter")
		require.True(mt, sawInsert, "comment not inserted")

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "board.comments", mtest.FirstBatch,
			commentDoc(7, "First comment", c.CreatedAt)))
		list, err := r.ListAllOrdered(context.Background())
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		require.Equal(mt, c.ID, list[0].ID)
		require.Equal(mt, c.Content, list[0].Content)
		require.True(mt, c.CreatedAt.Equal(list[0].CreatedAt))
	})

	mt.Run("counter failure stores nothing", func(mt *mtest.T) {
		r := newMockMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}))
		_, err := r.Append(context.Background(), "lost")
		require.Error(mt, err)
		for _, evt := range mt.GetAllStartedEvents() {
			require.NotEqual(mt, "insert", evt.CommandName)
		}
	})

	mt.Run("list sorts by created_at then id", func(mt *mtest.T) {
		r := newMockMongoRepo(mt)
		base := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "board.comments", mtest.FirstBatch,
			commentDoc(1, "one", base),
			commentDoc(2, "two", base),
			commentDoc(3, "three", base.Add(time.Second)),
		))
		mt.ClearEvents()

		list, err := r.ListAllOrdered(context.Background())
		require.NoError(mt, err)
		require.Len(mt, list, 3)
		for i, want := range []string{"one", "two", "three"} {
			require.Equal(mt, want, list[i].Content)
			require.Equal(mt, time.UTC, list[i].CreatedAt.Location())
		}

		evt := mt.GetStartedEvent()
		require.Equal(mt, "find", evt.CommandName)
		elems, err := evt.Command.Lookup("sort").Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, elems, 2)
		require.Equal(mt, "created_at", elems[0].Key())
		require.Equal(mt, "_id", elems[1].Key())
	})

	mt.Run("empty board", func(mt *mtest.T) {
		r := newMockMongoRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "board.comments", mtest.FirstBatch))
		list, err := r.ListAllOrdered(context.Background())
		require.NoError(mt, err)
		require.NotNil(mt, list)
		require.Len(mt, list, 0)
	})
}
