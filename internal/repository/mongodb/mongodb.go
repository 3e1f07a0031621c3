// Package mongodb implements the persistence ports on top of MongoDB.
// Decimal values are persisted as their exact string representation and
// re-parsed on read, so no binary floating-point ever enters the pipeline.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	logEntriesCollection     = "log_entries"
	manualProductsCollection = "manual_products"
	goalsCollection          = "goals"
	templatesCollection      = "meal_templates"
)

// Store owns the MongoDB client and hands out the repository implementations.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Logs returns the log entry repository.
func (s *Store) Logs() *LogRepository {
	return &LogRepository{coll: s.db.Collection(logEntriesCollection)}
}

// ManualProducts returns the manual product repository.
func (s *Store) ManualProducts() *ManualProductRepository {
	return &ManualProductRepository{coll: s.db.Collection(manualProductsCollection)}
}

// Goals returns the goals repository.
func (s *Store) Goals() *GoalsRepository {
	return &GoalsRepository{coll: s.db.Collection(goalsCollection)}
}

// Templates returns the meal template repository.
func (s *Store) Templates() *TemplateRepository {
	return &TemplateRepository{coll: s.db.Collection(templatesCollection)}
}
