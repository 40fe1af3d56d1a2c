package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection = "users"
	GoalsCollection = "goals"
)

// DB is the process-wide store handle. It is opened once at startup and
// passed to repositories; nothing reaches for it through package state.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func Connect(ctx context.Context, uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected", "database", database)

	return &DB{
		Client:   client,
		Database: client.Database(database),
	}, nil
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.Database.Collection(name)
}

func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return errors.New("database not connected")
	}
	return d.Client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. Creating an
// index that already exists is a no-op, so this runs on every startup.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = d.Collection(GoalsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "author", Value: 1}},
			Options: options.Index().SetName("author"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create goals indexes: %w", err)
	}

	slog.Info("database indexes ensured")
	return nil
}
