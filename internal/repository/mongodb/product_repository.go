package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

// ManualProductRepository persists tenant-created products.
type ManualProductRepository struct {
	coll *mongo.Collection
}

// Save upserts a manual product by its id.
func (r *ManualProductRepository) Save(ctx context.Context, product models.Product) error {
	filter := bson.M{"id": product.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.coll.ReplaceOne(ctx, filter, toProductDoc(product), opts); err != nil {
		return fmt.Errorf("save manual product: %w", err)
	}
	return nil
}

// FindByID returns a stored manual product.
func (r *ManualProductRepository) FindByID(ctx context.Context, productID string) (models.Product, error) {
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"id": productID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Product{}, &models.NotFoundError{ProductID: productID, Source: string(models.SourceManual)}
		}
		return models.Product{}, fmt.Errorf("find manual product: %w", err)
	}
	return fromProductDoc(doc)
}

// Search matches manual products by name, case-insensitively.
func (r *ManualProductRepository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	filter := bson.M{"name": bson.M{
		"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search manual products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode manual product: %w", err)
		}
		product, err := fromProductDoc(doc)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate manual products: %w", err)
	}
	return products, nil
}
