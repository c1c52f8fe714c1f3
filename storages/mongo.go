package storages

import (
	"context"
	"fmt"

	"github.com/9seconds/whereabouts/wherelib"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const NameMongo = "mongo"

// MongoStorage keeps each record as a separate document.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func (m *MongoStorage) Name() string {
	return NameMongo
}

func (m *MongoStorage) Append(ctx context.Context, record *wherelib.Record) error {
	if _, err := m.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("cannot insert a record: %w", err)
	}

	return nil
}

func (m *MongoStorage) ListAll(ctx context.Context) ([]wherelib.Record, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := m.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot find records: %w", err)
	}

	records := []wherelib.Record{}

	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("cannot decode records: %w", err)
	}

	for i := range records {
		records[i].Timestamp = records[i].Timestamp.UTC()
	}

	return records, nil
}

func (m *MongoStorage) Close() error {
	return m.client.Disconnect(context.Background())
}

// NewMongo connects to MongoDB. A database is taken from the
// connection string, DefaultMongoDatabase is used if it is absent.
func NewMongo(ctx context.Context, uri, collection string) (*MongoStorage, error) {
	parsed, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectConnectionString, err)
	}

	database := parsed.Database
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background()) // nolint: errcheck

		return nil, fmt.Errorf("cannot ping mongo: %w", err)
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}
