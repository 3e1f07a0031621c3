package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

// LogRepository persists log entries in the log_entries collection. Every
// filter includes the tenant id; there is no query path without it.
type LogRepository struct {
	coll *mongo.Collection
}

// Save inserts a new log entry.
func (r *LogRepository) Save(ctx context.Context, entry models.LogEntry) error {
	if _, err := r.coll.InsertOne(ctx, toEntryDoc(entry)); err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// FindByID returns one entry scoped to the tenant.
func (r *LogRepository) FindByID(ctx context.Context, tenantID, entryID string) (models.LogEntry, error) {
	filter := bson.M{"_id": entryID, "tenant_id": tenantID}

	var doc entryDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LogEntry{}, models.ErrEntryNotFound
		}
		return models.LogEntry{}, fmt.Errorf("find log entry: %w", err)
	}
	return fromEntryDoc(doc)
}

// FindByDate returns the tenant's entries for one calendar date.
func (r *LogRepository) FindByDate(ctx context.Context, tenantID string, date time.Time) ([]models.LogEntry, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"log_date":  models.NormalizeDate(date).Format(models.DateLayout),
	}
	return r.findEntries(ctx, filter)
}

// FindByDateRange returns the tenant's entries inside the inclusive range.
// The date layout sorts lexicographically, so string comparison is safe.
func (r *LogRepository) FindByDateRange(ctx context.Context, tenantID string, dateRange models.DateRange) ([]models.LogEntry, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"log_date": bson.M{
			"$gte": dateRange.Start.Format(models.DateLayout),
			"$lte": dateRange.End.Format(models.DateLayout),
		},
	}
	return r.findEntries(ctx, filter)
}

func (r *LogRepository) findEntries(ctx context.Context, filter bson.M) ([]models.LogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "log_date", Value: 1}, {Key: "consumed_at", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.LogEntry
	for cursor.Next(ctx) {
		var doc entryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode log entry: %w", err)
		}
		entry, err := fromEntryDoc(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}
	return entries, nil
}

// Delete removes one entry scoped to the tenant.
func (r *LogRepository) Delete(ctx context.Context, tenantID, entryID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": entryID, "tenant_id": tenantID})
	if err != nil {
		return fmt.Errorf("delete log entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

// Update replaces an existing entry scoped to the tenant.
func (r *LogRepository) Update(ctx context.Context, entry models.LogEntry) error {
	filter := bson.M{"_id": entry.ID, "tenant_id": entry.TenantID}

	result, err := r.coll.ReplaceOne(ctx, filter, toEntryDoc(entry))
	if err != nil {
		return fmt.Errorf("update log entry: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}
