package activity

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Source returns up to n records strictly after cur in feed order.
// Returning fewer than n rows means the source has nothing further.
type Source[P any] interface {
	Fetch(ctx context.Context, cur Cursor, n int) ([]Record[P], error)
}

// SourceFunc adapts a function to Source
type SourceFunc[P any] func(ctx context.Context, cur Cursor, n int) ([]Record[P], error)

func (f SourceFunc[P]) Fetch(ctx context.Context, cur Cursor, n int) ([]Record[P], error) {
	return f(ctx, cur, n)
}

// Filter decides whether the viewer a build runs for may see a record
type Filter[P any] interface {
	Visible(r Record[P]) (bool, error)
}

// FilterFunc adapts a function to Filter
type FilterFunc[P any] func(r Record[P]) (bool, error)

func (f FilterFunc[P]) Visible(r Record[P]) (bool, error) { return f(r) }

// AllowAll is a Filter that accepts every record
func AllowAll[P any]() Filter[P] {
	return FilterFunc[P](func(Record[P]) (bool, error) { return true, nil })
}

// Feed is one page of merged activity
type Feed[P any] struct {
	Items []Record[P]
	// Next resumes the feed after the last item; it echoes the normalized
	// starting position when the page is empty
	Next string
	// Exhausted is set when both sources ran dry before or at the limit
	Exhausted bool
	// Truncated is set when the soft deadline cut the page short
	Truncated bool
}

// Merger merges a review source and a comment source through one filter.
// A Merger holds no per-call state and may be reused.
type Merger[P any] struct {
	reviews  Source[P]
	comments Source[P]
	filter   Filter[P]
	opt      options
}

// New builds a Merger; a nil filter accepts everything
func New[P any](reviews, comments Source[P], filter Filter[P], opts ...Option) *Merger[P] {
	if reviews == nil || comments == nil {
		panic("activity.New: nil source")
	}
	if filter == nil {
		filter = AllowAll[P]()
	}
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Merger[P]{reviews: reviews, comments: comments, filter: filter, opt: o}
}

var errDeadline = errors.New("activity: soft deadline reached")

type side[P any] struct {
	kind Kind
	src  Source[P]
	buf  deque[Record[P]]
	cur  Cursor
	head Record[P]
	ok   bool // head holds a visible candidate
	done bool // no further fetches
	rows []Record[P]
}

type build[P any] struct {
	m      *Merger[P]
	limit  int
	batch  int
	sides  [2]*side[P]
	expiry func() bool
}

// Build produces up to limit visible records starting at position.
// A malformed position starts from the most recent activity.
func (m *Merger[P]) Build(ctx context.Context, position string, limit int) (Feed[P], error) {
	start := DecodePosition(position)
	feed := Feed[P]{Next: start.String()}
	if limit <= 0 {
		return feed, nil
	}

	b := &build[P]{
		m:     m,
		limit: limit,
		batch: max(1, m.opt.batch(limit)),
		sides: [2]*side[P]{
			{kind: KindReview, src: m.reviews, cur: start},
			{kind: KindComment, src: m.comments, cur: start},
		},
		expiry: func() bool { return false },
	}
	if m.opt.deadline > 0 {
		until := m.opt.now().Add(m.opt.deadline)
		b.expiry = func() bool { return !m.opt.now().Before(until) }
	}

	items := make([]Record[P], 0, limit)
	for len(items) < limit {
		if err := b.fill(ctx); err != nil {
			if errors.Is(err, errDeadline) {
				feed.Truncated = true
				break
			}
			return Feed[P]{}, err
		}
		next := b.pick()
		if next == nil {
			break
		}
		items = append(items, next.head)
		next.ok = false
		next.head = Record[P]{}
	}

	feed.Items = items
	if n := len(items); n > 0 {
		feed.Next = EncodeKey(items[n-1].Key)
	}
	feed.Exhausted = !feed.Truncated && b.drained()
	return feed, nil
}

// pick returns the side whose visible head comes first; reviews win ties
func (b *build[P]) pick() *side[P] {
	r, c := b.sides[0], b.sides[1]
	switch {
	case r.ok && c.ok:
		if c.head.Key.Less(r.head.Key) {
			return c
		}
		return r
	case r.ok:
		return r
	case c.ok:
		return c
	}
	return nil
}

func (b *build[P]) drained() bool {
	for _, s := range b.sides {
		if s.ok || s.buf.Len() > 0 || !s.done {
			return false
		}
	}
	return true
}

// fill gives every side a visible head or runs it dry
func (b *build[P]) fill(ctx context.Context) error {
	for {
		var need []*side[P]
		for _, s := range b.sides {
			if err := b.advance(s); err != nil {
				return err
			}
			if !s.ok && !s.done {
				need = append(need, s)
			}
		}
		if len(need) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if b.expiry() {
			return errDeadline
		}
		if err := b.fetch(ctx, need); err != nil {
			return err
		}
	}
}

// advance pops buffered rows until one passes the filter
func (b *build[P]) advance(s *side[P]) error {
	for !s.ok {
		r, has := s.buf.PopFront()
		if !has {
			return nil
		}
		if !r.Eligible() {
			continue
		}
		visible, err := b.m.filter.Visible(r)
		if err != nil {
			return unavailable(s.kind, "filter", err)
		}
		if visible {
			s.head, s.ok = r, true
		}
	}
	return nil
}

func (b *build[P]) fetch(ctx context.Context, need []*side[P]) error {
	if len(need) > 1 && b.m.opt.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, s := range need {
			g.Go(func() error { return b.load(gctx, s) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, s := range need {
			if err := b.load(ctx, s); err != nil {
				return err
			}
		}
	}
	for _, s := range need {
		b.absorb(s)
	}
	return nil
}

// load runs one source query; it touches only s so sides may load concurrently
func (b *build[P]) load(ctx context.Context, s *side[P]) error {
	rows, err := s.src.Fetch(ctx, s.cur, b.batch)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		return unavailable(s.kind, "fetch", err)
	}
	if len(rows) > b.batch {
		rows = rows[:b.batch]
	}
	s.rows = rows
	return nil
}

func (b *build[P]) absorb(s *side[P]) {
	rows := s.rows
	s.rows = nil
	for _, r := range rows {
		r.Kind = s.kind
		s.buf.PushBack(r)
	}
	if n := len(rows); n > 0 {
		s.cur = Before(rows[n-1].Key)
	}
	if len(rows) < b.batch {
		s.cur = Exhausted()
		s.done = true
	}
	b.m.opt.log.Debug().
		Stringer("side", s.kind).
		Int("rows", len(rows)).
		Int("batch", b.batch).
		Str("cursor", s.cur.String()).
		Bool("exhausted", s.done).
		Msg("activity refill")
}
