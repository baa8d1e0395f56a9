package db

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection         *mongo.Collection
	ProductsCollection     *mongo.Collection
	ServicesCollection     *mongo.Collection
	AppointmentsCollection *mongo.Collection
	PurchasesCollection    *mongo.Collection
	Client                 *mongo.Client
)

// Connect establishes the MongoDB connection and resolves collection handles.
// Called once from main; core packages never connect on import so they stay
// testable against in-memory stores.
func Connect() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("campora")
	UserCollection = database.Collection("users")
	ProductsCollection = database.Collection("products")
	ServicesCollection = database.Collection("services")
	AppointmentsCollection = database.Collection("appointments")
	PurchasesCollection = database.Collection("purchases")

	if err := EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
}

// EnsureIndexes creates the indexes the core invariants depend on. The unique
// (serviceid, timeslot) index is what turns the booking engine's insert into an
// atomic insert-if-absent.
func EnsureIndexes(ctx context.Context) error {
	_, err := AppointmentsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "serviceid", Value: 1}, {Key: "timeslot", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = AppointmentsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userid", Value: 1}},
	})
	return err
}
