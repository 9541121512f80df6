// Package domain holds the activity feed types
package domain

import (
	"context"
	"time"

	"confsrv/internal/core/activity"
	"confsrv/internal/core/visibility"
)

// FeedInput is a feed page request
type FeedInput struct {
	Position string `query:"position" json:"position" validate:"max=64"`
	// Limit 0 means the configured default
	Limit int `query:"limit" json:"limit" validate:"gte=0"`
}

// Row is the payload the sources attach to each record
type Row struct {
	PaperTitle string
	ActorFirst string
	ActorLast  string
	ActorEmail string
	// Access is the viewer's relation to the paper
	Access  visibility.Access
	Review  *ReviewRow
	Comment *CommentRow
}

// ReviewRow holds the review-only columns
type ReviewRow struct {
	ID      int64
	Type    int
	Ordinal int
}

// CommentRow holds the comment-only columns
type CommentRow struct {
	ID         int64
	Text       string
	Visibility visibility.CommentVisibility
	Draft      bool
	Response   bool
}

// Record is one merged feed entry
type Record = activity.Record[Row]

// Sources opens the two feed sources for one viewer
type Sources interface {
	Reviews(v visibility.Viewer) activity.Source[Row]
	Comments(v visibility.Viewer) activity.Source[Row]
}

// Item is one feed entry as served
type Item struct {
	Kind       activity.Kind `json:"kind"`
	SortTime   int64         `json:"sort_time"`
	At         time.Time     `json:"at"`
	ContactID  int64         `json:"contact_id"`
	PaperID    int64         `json:"paper_id"`
	PaperTitle string        `json:"paper_title"`
	ShortTitle string        `json:"short_title"`
	// ActorName and ActorEmail are blank when the viewer may not know who acted
	ActorName     string `json:"actor_name,omitempty"`
	ActorEmail    string `json:"actor_email,omitempty"`
	ReviewID      *int64 `json:"review_id,omitempty"`
	ReviewOrdinal *int   `json:"review_ordinal,omitempty"`
	CommentID     *int64 `json:"comment_id,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	Response      bool   `json:"response,omitempty"`
}

// Feed is one page of activity
type Feed struct {
	Items        []Item `json:"items"`
	NextPosition string `json:"next_position"`
	Exhausted    bool   `json:"exhausted"`
	Truncated    bool   `json:"truncated"`
}

// ServicePort is consumed by handlers and the feed CLI
type ServicePort interface {
	BuildFeed(ctx context.Context, contactID int64, in FeedInput) (Feed, error)
}
