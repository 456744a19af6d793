package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TraceRepository stores and reads agent flow traces
type TraceRepository struct {
	collection *mongo.Collection
}

// NewTraceRepository wraps the given collection
func NewTraceRepository(collection *mongo.Collection) *TraceRepository {
	return &TraceRepository{collection: collection}
}

// InsertTrace inserts one trace document
func (r *TraceRepository) InsertTrace(ctx context.Context, doc *TraceDocument) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert trace: %w", err)
	}
	return nil
}

// GetTraceByRequestID returns the trace for a request id, or nil when absent
func (r *TraceRepository) GetTraceByRequestID(ctx context.Context, requestID string) (*TraceDocument, error) {
	var doc TraceDocument
	err := r.collection.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trace: %w", err)
	}
	return &doc, nil
}

// RecentTraces returns up to limit traces, newest first
func (r *TraceRepository) RecentTraces(ctx context.Context, limit int64) ([]TraceDocument, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find traces: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []TraceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode traces: %w", err)
	}
	return docs, nil
}
