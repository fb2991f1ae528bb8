// Package store persists activity entries in MongoDB.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adiwidjaja/tokolens/internal/activity"
)

const collectionName = "activity_logs"

type Store struct {
	collection *mongo.Collection
	log        *slog.Logger
}

func New(db *mongo.Database, log *slog.Logger) *Store {
	return &Store{collection: db.Collection(collectionName), log: log}
}

// Log writes one audit entry. Failures are logged and swallowed; the
// caller's request must not fail because the audit trail is down.
func (s *Store) Log(ctx context.Context, entry activity.Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		s.log.Warn("failed to write activity entry", "action", entry.Action, "error", err)
	}
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]activity.Entry, error) {
	if limit < 1 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying activity entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []activity.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decoding activity entries: %w", err)
	}

	return entries, nil
}
