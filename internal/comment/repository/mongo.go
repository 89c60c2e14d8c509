package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/anonforum/forum/internal/comment"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterID = "comments"

// MongoRepo stores one document per comment. Integer ids come from a
// sequence document in the counters collection, bumped with $inc.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	col := db.Collection("comments")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create comments index: %w", err)
	}
	return &MongoRepo{col: col, counters: db.Collection("counters"), now: time.Now}, nil
}

func (m *MongoRepo) nextID(ctx context.Context) (int64, error) {
	var seq struct {
		Value int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&seq)
	if err != nil {
		return 0, fmt.Errorf("next comment id: %w", err)
	}
	return seq.Value, nil
}

func (m *MongoRepo) Append(ctx context.Context, content string) (*comment.Comment, error) {
	id, err := m.nextID(ctx)
	if err != nil {
		return nil, err
	}
	// bson dates carry millisecond precision
	c := &comment.Comment{ID: id, Content: content, CreatedAt: m.now().UTC().Truncate(time.Millisecond)}
	if _, err := m.col.InsertOne(ctx, c); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

func (m *MongoRepo) ListAllOrdered(ctx context.Context) ([]*comment.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	out := []*comment.Comment{}
	for cur.Next(ctx) {
		var c comment.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, &c)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}

// Close is a no-op; the client owner disconnects it.
func (m *MongoRepo) Close() error { return nil }
