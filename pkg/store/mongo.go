package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures the MongoDB layout store.
type MongoConfig struct {
	// URI is the connection string, e.g. mongodb://localhost:27017.
	URI string

	// Database defaults to "graphdraw".
	Database string

	// Collection defaults to "layouts".
	Collection string
}

// MongoStore persists layouts in a MongoDB collection with a unique
// index on the layout name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and ensures the name index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "graphdraw"
	}
	if cfg.Collection == "" {
		cfg.Collection = "layouts"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Layout, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetByName(ctx context.Context, name string) (*Layout, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*Layout, error) {
	var l Layout
	err := s.coll.FindOne(ctx, filter).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *MongoStore) Put(ctx context.Context, l *Layout) error {
	prepare(l)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	return err
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoStore) List(ctx context.Context) ([]*Layout, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*Layout
	for cur.Next(ctx) {
		var l Layout
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, cur.Err()
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
