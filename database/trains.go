package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrainCollection wraps the Mongo train collection behind the narrow
// read-only surface the search service consumes.
type TrainCollection struct {
	coll *mongo.Collection
}

// NewTrainCollection wraps a collection handle.
func NewTrainCollection(coll *mongo.Collection) *TrainCollection {
	return &TrainCollection{coll: coll}
}

// Find returns the matching documents. A limit of 0 means no limit.
func (t *TrainCollection) Find(ctx context.Context, filter interface{}, skip, limit int64) ([]bson.M, error) {
	opts := options.Find()
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := t.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Count counts the documents matching a filter.
func (t *TrainCollection) Count(ctx context.Context, filter interface{}) (int64, error) {
	return t.coll.CountDocuments(ctx, filter)
}

// EstimatedCount returns the collection size from metadata.
func (t *TrainCollection) EstimatedCount(ctx context.Context) (int64, error) {
	return t.coll.EstimatedDocumentCount(ctx)
}

// Aggregate runs a pipeline and drains the cursor.
func (t *TrainCollection) Aggregate(ctx context.Context, pipeline interface{}) ([]bson.M, error) {
	cursor, err := t.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
