package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"smartfare-backend/config"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Connect establishes the MongoDB connection. The handle is opened once
// at process start and shared read-only by all requests.
func Connect(cfg *config.Config) error {
	if db != nil {
		return nil
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(10).
		SetMinPoolSize(2).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	client, err = mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	db = client.Database(cfg.MongoDatabase)
	log.Println("Successfully connected to database")
	return nil
}

// Close tears down the connection at shutdown.
func Close() error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := client.Disconnect(ctx)
	client = nil
	db = nil
	return err
}

// GetCollection returns a collection handle from the shared database.
func GetCollection(name string) *mongo.Collection {
	if db == nil {
		log.Fatal("database not connected, call Connect first")
	}
	return db.Collection(name)
}
