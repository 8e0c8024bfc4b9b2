package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	AvailabilityCollection *mongo.Collection
	Client                 *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	AvailabilityCollection = Client.Database("voyago").Collection("availability")
}

// EnsureIndexes creates the unique tour index on the availability collection.
func EnsureIndexes(ctx context.Context) error {
	_, err := AvailabilityCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"tourId": 1},
		Options: options.Index().SetUnique(true).SetName("unique_tour"),
	})
	return err
}
