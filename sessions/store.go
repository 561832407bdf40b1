// Package sessions keeps each visitor's wizard between requests.
package sessions

import (
	"context"
	"errors"
	"time"

	"landcheck/wizard"
)

var ErrNotFound = errors.New("sessions: not found")

// Snapshot is one stored wizard session.
type Snapshot struct {
	ID        string          `json:"id" bson:"_id"`
	Wizard    wizard.Snapshot `json:"wizard" bson:"wizard"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Store persists snapshots for the lifetime of a visit. Expired sessions
// must be reported as ErrNotFound.
type Store interface {
	Load(ctx context.Context, id string) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
	Delete(ctx context.Context, id string) error
}
