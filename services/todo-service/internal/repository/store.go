package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Store bundles the repositories of one storage backend.
type Store struct {
	Users UserRepository
	Todos TodoRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures the
// collection indexes exist.
func NewMongoStore(ctx context.Context, logger *zerolog.Logger, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)

	return &Store{
		Users: NewUserMongoRepository(ctx, logger, db),
		Todos: NewTodoMongoRepository(ctx, logger, db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}, nil
}

// NewMemoryStore returns a Store that keeps everything in process memory.
func NewMemoryStore() *Store {
	noop := func(context.Context) error { return nil }

	return &Store{
		Users: NewUserMemoryRepository(),
		Todos: NewTodoMemoryRepository(),
		ping:  noop,
		close: noop,
	}
}
