// Package service records conference actions
package service

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"confsrv/internal/platform/logger"
	pstrings "confsrv/internal/platform/strings"
	"confsrv/internal/services/actionlog/domain"

	"github.com/google/uuid"
)

// Service builds entries and hands them to a sink
type Service struct {
	sink  domain.Sink
	now   func() time.Time
	newID func() uuid.UUID
	log   logger.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDs replaces uuid.New
func WithIDs(f func() uuid.UUID) Option { return func(s *Service) { s.newID = f } }

// New constructs the service
func New(sink domain.Sink, opts ...Option) *Service {
	if sink == nil {
		panic("actionlog.Service requires a non nil Sink")
	}
	s := &Service{sink: sink, now: time.Now, newID: uuid.New, log: *logger.Named("actionlog")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Log writes one entry for action; several papers collapse into one entry naming them
func (s *Service) Log(ctx context.Context, who domain.Actor, action string, paperIDs ...int64) error {
	e := s.entry(who, action, paperIDs)
	if err := s.sink.Write(ctx, []domain.Entry{e}); err != nil {
		logger.C(ctx).Error().Err(err).Str("action", e.Action).Msg("action log write failed")
		return err
	}
	return nil
}

func (s *Service) entry(who domain.Actor, action string, paperIDs []int64) domain.Entry {
	e := domain.Entry{
		ID:        s.newID(),
		At:        s.now().UTC(),
		IPAddr:    who.IPAddr,
		ContactID: who.ContactID,
	}
	switch len(paperIDs) {
	case 0:
	case 1:
		pid := paperIDs[0]
		e.PaperID = &pid
	default:
		action += " (papers " + joinIDs(paperIDs) + ")"
	}
	e.Action = pstrings.Clip(action, domain.MaxActionBytes)
	return e
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

type batchKey struct {
	who    domain.Actor
	action string
}

// Batch defers entries until Flush, merging the papers of repeated (actor, action) pairs
type Batch struct {
	svc   *Service
	mu    sync.Mutex
	order []batchKey
	pids  map[batchKey][]int64
}

// Batch starts a deferred batch
func (s *Service) Batch() *Batch {
	return &Batch{svc: s, pids: map[batchKey][]int64{}}
}

// Log queues action; it is written on Flush
func (b *Batch) Log(who domain.Actor, action string, paperIDs ...int64) {
	k := batchKey{who: who, action: action}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.pids[k]; !ok {
		b.order = append(b.order, k)
		b.pids[k] = nil
	}
	b.pids[k] = append(b.pids[k], paperIDs...)
}

// Len reports the number of pending entries
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}

// Flush writes the pending entries in one sink call and empties the batch
func (b *Batch) Flush(ctx context.Context) error {
	b.mu.Lock()
	order, pids := b.order, b.pids
	b.order, b.pids = nil, map[batchKey][]int64{}
	b.mu.Unlock()

	if len(order) == 0 {
		return nil
	}
	entries := make([]domain.Entry, 0, len(order))
	for _, k := range order {
		ids := pids[k]
		slices.Sort(ids)
		entries = append(entries, b.svc.entry(k.who, k.action, slices.Compact(ids)))
	}
	if err := b.svc.sink.Write(ctx, entries); err != nil {
		logger.C(ctx).Error().Err(err).Int("entries", len(entries)).Msg("action log flush failed")
		return err
	}
	return nil
}
