package activity

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidCursor is returned by ParseCursor for tokens that are not "t.c.p"
var ErrInvalidCursor = errors.New("activity: invalid cursor")

type cursorState uint8

const (
	stateStart cursorState = iota
	stateBefore
	stateExhausted
)

// Cursor bounds a source: Start (unbounded), Before(key) or Exhausted.
// The zero value is Start.
type Cursor struct {
	state cursorState
	key   Key
}

// Start is the cursor of a fresh request
func Start() Cursor { return Cursor{} }

// Before bounds a source to records emitted strictly after k
func Before(k Key) Cursor { return Cursor{state: stateBefore, key: k} }

// Exhausted marks a source that has nothing left
func Exhausted() Cursor { return Cursor{state: stateExhausted} }

func (c Cursor) IsStart() bool     { return c.state == stateStart }
func (c Cursor) IsExhausted() bool { return c.state == stateExhausted }

// Bound returns the key a Before cursor holds
func (c Cursor) Bound() (Key, bool) {
	if c.state != stateBefore {
		return Key{}, false
	}
	return c.key, true
}

// Admits reports whether a record at k lies inside the cursor's range
func (c Cursor) Admits(k Key) bool {
	switch c.state {
	case stateStart:
		return true
	case stateBefore:
		return c.key.Less(k)
	default:
		return false
	}
}

// String encodes a Before cursor as "t.c.p"; other states encode as ""
func (c Cursor) String() string {
	if c.state != stateBefore {
		return ""
	}
	return EncodeKey(c.key)
}

// EncodeKey renders k as "<sortTime>.<contactId>.<paperId>"
func EncodeKey(k Key) string {
	var b strings.Builder
	b.Grow(32)
	b.WriteString(strconv.FormatInt(k.SortTime, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatInt(k.ContactID, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatInt(k.PaperID, 10))
	return b.String()
}

// ParseCursor strictly decodes a "t.c.p" token into a Before cursor.
// Each part must be a non-empty run of ASCII digits that fits in an int64.
func ParseCursor(s string) (Cursor, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Start(), ErrInvalidCursor
	}
	var v [3]int64
	for i, p := range parts {
		n, ok := parseDigits(p)
		if !ok {
			return Start(), ErrInvalidCursor
		}
		v[i] = n
	}
	return Before(Key{SortTime: v[0], ContactID: v[1], PaperID: v[2]}), nil
}

// DecodePosition turns a caller token into a starting cursor; "" and
// malformed tokens both start from the most recent activity
func DecodePosition(s string) Cursor {
	if s == "" {
		return Start()
	}
	c, err := ParseCursor(s)
	if err != nil {
		return Start()
	}
	return c
}

func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
