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

// TemplateRepository persists meal templates per tenant.
type TemplateRepository struct {
	coll *mongo.Collection
}

// Save inserts a new meal template.
func (r *TemplateRepository) Save(ctx context.Context, template models.MealTemplate) error {
	if _, err := r.coll.InsertOne(ctx, toTemplateDoc(template)); err != nil {
		return fmt.Errorf("insert meal template: %w", err)
	}
	return nil
}

// FindByID returns one template scoped to the tenant.
func (r *TemplateRepository) FindByID(ctx context.Context, tenantID, templateID string) (models.MealTemplate, error) {
	filter := bson.M{"_id": templateID, "tenant_id": tenantID}

	var doc templateDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.MealTemplate{}, models.ErrTemplateNotFound
		}
		return models.MealTemplate{}, fmt.Errorf("find meal template: %w", err)
	}
	return fromTemplateDoc(doc)
}

// FindAll returns every template owned by the tenant, oldest first.
func (r *TemplateRepository) FindAll(ctx context.Context, tenantID string) ([]models.MealTemplate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("query meal templates: %w", err)
	}
	defer cursor.Close(ctx)

	var templates []models.MealTemplate
	for cursor.Next(ctx) {
		var doc templateDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode meal template: %w", err)
		}
		template, err := fromTemplateDoc(doc)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal templates: %w", err)
	}
	return templates, nil
}

// Delete removes one template scoped to the tenant.
func (r *TemplateRepository) Delete(ctx context.Context, tenantID, templateID string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": templateID, "tenant_id": tenantID})
	if err != nil {
		return fmt.Errorf("delete meal template: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrTemplateNotFound
	}
	return nil
}
