package inventory

import (
	"context"
	"errors"

	"campora/db"
	"campora/errs"
	"campora/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore backs the allocator with the products collection.
type mongoStore struct{}

func (mongoStore) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product)
	if err != nil {
		return nil, errs.FromMongo(err)
	}
	return &product, nil
}

// ClaimUnit expresses all three guards (existence, ownership, availability) in
// one conditional update so concurrent buyers of the last unit cannot both
// succeed.
func (mongoStore) ClaimUnit(ctx context.Context, productID, buyer string) (*models.Product, error) {
	filter := bson.M{
		"productid": productID,
		"quantity":  bson.M{"$gt": 0},
		"userid":    bson.M{"$ne": buyer},
	}
	update := bson.M{"$inc": bson.M{"quantity": -1}}

	var product models.Product
	err := db.ProductsCollection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoClaim
		}
		return nil, errs.FromMongo(err)
	}
	return &product, nil
}

func (mongoStore) DeleteProduct(ctx context.Context, productID string) error {
	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productid": productID})
	if err != nil {
		return errs.FromMongo(err)
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
