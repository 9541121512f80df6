// Package domain holds the conference settings model
package domain

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	perr "confsrv/internal/platform/errors"
)

// Setting is one row of the settings table; Value is often a unix time
type Setting struct {
	Name  string  `json:"name"`
	Value int64   `json:"value"`
	Data  *string `json:"data,omitempty"`
}

// SaveInput is the body of a settings write; a nil value and nil data delete the setting
type SaveInput struct {
	Value *int64  `json:"value"`
	Data  *string `json:"data" validate:"omitempty,max=65535"`
}

// NameParam validates a setting name taken from the path
type NameParam struct {
	Name string `json:"name" validate:"required,max=64,setting_name"`
}

// Snapshot is an immutable view of every setting at load time
type Snapshot struct {
	byName map[string]Setting
}

// NewSnapshot indexes rows by name; a later duplicate wins
func NewSnapshot(rows []Setting) Snapshot {
	m := make(map[string]Setting, len(rows))
	for _, r := range rows {
		m[r.Name] = r
	}
	return Snapshot{byName: m}
}

// Rows returns the settings sorted by name
func (s Snapshot) Rows() []Setting {
	out := make([]Setting, 0, len(s.byName))
	for _, r := range s.byName {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Setting) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Len is the number of settings
func (s Snapshot) Len() int { return len(s.byName) }

// Get returns the named setting
func (s Snapshot) Get(name string) (Setting, bool) {
	r, ok := s.byName[name]
	return r, ok
}

// Value returns the setting's value or def when it is absent
func (s Snapshot) Value(name string, def int64) int64 {
	if r, ok := s.byName[name]; ok {
		return r.Value
	}
	return def
}

// Data returns the setting's text payload
func (s Snapshot) Data(name string) (string, bool) {
	r, ok := s.byName[name]
	if !ok || r.Data == nil {
		return "", false
	}
	return *r.Data, true
}

// JSON decodes the setting's payload into dst
func (s Snapshot) JSON(name string, dst any) error {
	d, ok := s.Data(name)
	if !ok {
		return perr.NotFoundf("setting %s has no data", name)
	}
	if err := json.Unmarshal([]byte(d), dst); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "setting %s data is not valid JSON", name)
	}
	return nil
}

// After reports whether the named time is set and has passed
func (s Snapshot) After(name string, now time.Time) bool {
	t := s.Value(name, 0)
	return t > 0 && t <= now.Unix()
}

// DeadlineAfter is After with the grace setting's seconds added to the deadline
func (s Snapshot) DeadlineAfter(name, grace string, now time.Time) bool {
	return s.After(name, now.Add(-s.grace(name, grace)))
}

// DeadlinesBetween reports whether name1 has opened and name2 (plus grace) has not
// yet closed; an empty name1 skips the opening check and an unset name2 never closes
func (s Snapshot) DeadlinesBetween(name1, name2, grace string, now time.Time) bool {
	if name1 != "" && !s.After(name1, now) {
		return false
	}
	t := s.Value(name2, 0)
	if t <= 0 {
		return true
	}
	return t+int64(s.grace(name2, grace)/time.Second) >= now.Unix()
}

func (s Snapshot) grace(name, grace string) time.Duration {
	if grace == "" || s.Value(name, 0) <= 0 {
		return 0
	}
	g := s.Value(grace, 0)
	if g <= 0 {
		return 0
	}
	return time.Duration(g) * time.Second
}

// Reader hands out the current snapshot
type Reader interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Repo is the settings table
type Repo interface {
	All(ctx context.Context) ([]Setting, error)
	Upsert(ctx context.Context, s Setting) error
	Delete(ctx context.Context, name string) (bool, error)
}

// Cache holds a loaded snapshot between requests
type Cache interface {
	Get(ctx context.Context) (Snapshot, bool, error)
	Put(ctx context.Context, s Snapshot) error
	Drop(ctx context.Context) error
}
