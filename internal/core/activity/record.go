// Package activity merges reviews and comments into one paginated, time-ordered feed
package activity

import "fmt"

// Kind tags which source a record came from
type Kind uint8

const (
	// KindReview is a submitted review
	KindReview Kind = iota
	// KindComment is a posted comment
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindReview:
		return "review"
	case KindComment:
		return "comment"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText renders the kind as its lowercase name
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Key is the position of a record in the feed order:
// sortTime descending, then contactID ascending, then paperID ascending
type Key struct {
	SortTime  int64
	ContactID int64
	PaperID   int64
}

// Compare returns -1 when k is emitted before o, +1 when after, 0 when equal
func (k Key) Compare(o Key) int {
	switch {
	case k.SortTime > o.SortTime:
		return -1
	case k.SortTime < o.SortTime:
		return 1
	case k.ContactID < o.ContactID:
		return -1
	case k.ContactID > o.ContactID:
		return 1
	case k.PaperID < o.PaperID:
		return -1
	case k.PaperID > o.PaperID:
		return 1
	}
	return 0
}

// Less reports whether k is emitted strictly before o
func (k Key) Less(o Key) bool { return k.Compare(o) < 0 }

// Record is one feed entry; Payload is carried untouched
type Record[P any] struct {
	Kind Kind
	Key
	Payload P
}

// Eligible reports whether the record may appear in a feed at all
func (r Record[P]) Eligible() bool { return r.SortTime > 0 }
