// Package activity records audit entries for account actions. Logging
// is best-effort: a write failure must never fail the request that
// triggered it.
package activity

import (
	"context"
	"time"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

type Entry struct {
	UserID    *string        `bson:"user_id,omitempty" json:"user_id,omitempty"`
	LastName  *string        `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Action    Action         `bson:"action" json:"action"`
	Details   map[string]any `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
}

//go:generate mockgen -source=activity.go -destination=logger_mock.go -package=activity
type Logger interface {
	Log(ctx context.Context, entry Entry)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
