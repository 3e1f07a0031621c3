package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

// GoalsRepository persists one goals document per tenant, keyed by the
// tenant id itself.
type GoalsRepository struct {
	coll *mongo.Collection
}

// Get loads the tenant's goals; found is false when none were ever saved.
func (r *GoalsRepository) Get(ctx context.Context, tenantID string) (models.Goals, bool, error) {
	var doc goalsDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": tenantID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Goals{}, false, nil
		}
		return models.Goals{}, false, fmt.Errorf("find goals: %w", err)
	}

	goals, err := fromGoalsDoc(doc)
	if err != nil {
		return models.Goals{}, false, err
	}
	return goals, true, nil
}

// Save upserts the tenant's goals.
func (r *GoalsRepository) Save(ctx context.Context, tenantID string, goals models.Goals) error {
	filter := bson.M{"_id": tenantID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.coll.ReplaceOne(ctx, filter, toGoalsDoc(tenantID, goals), opts); err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	return nil
}
