// Package domain holds the action log types and ports
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxActionBytes caps the stored action text
const MaxActionBytes = 4096

// Actor is who performed an action and from where
type Actor struct {
	ContactID int64
	IPAddr    string
}

// Entry is one stored action log row; PaperID is nil for conference-wide
// actions and for actions spanning several papers
type Entry struct {
	ID        uuid.UUID
	At        time.Time
	IPAddr    string
	ContactID int64
	PaperID   *int64
	Action    string
}

// Port is what other modules record actions through
type Port interface {
	Log(ctx context.Context, who Actor, action string, paperIDs ...int64) error
}

// Sink persists entries in one write
type Sink interface {
	Write(ctx context.Context, entries []Entry) error
}
