// Package service builds activity feeds for a viewer
package service

import (
	"context"
	"errors"
	"time"

	"confsrv/internal/core/activity"
	"confsrv/internal/core/visibility"
	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/logger"
	"confsrv/internal/platform/net/http/bind"
	pstrings "confsrv/internal/platform/strings"
	ptime "confsrv/internal/platform/time"
	"confsrv/internal/services/activity/domain"
	cdomain "confsrv/internal/services/contacts/domain"
	sdomain "confsrv/internal/services/settings/domain"
)

// ShortTitleRunes and ExcerptRunes size the display fields of an item
const (
	ShortTitleRunes = 80
	ExcerptRunes    = 300
)

// Service defines the activity service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the activity service
type Svc struct {
	sources  domain.Sources
	contacts cdomain.Port
	settings sdomain.Reader
	cfg      Config
	now      func() time.Time
}

// Option configures Svc
type Option func(*Svc)

// WithClock replaces time.Now for the soft deadline
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// New constructs the activity service
func New(sources domain.Sources, contacts cdomain.Port, settings sdomain.Reader, cfg Config, opts ...Option) *Svc {
	if sources == nil || contacts == nil || settings == nil {
		panic("activity.Service requires sources, contacts and settings")
	}
	if cfg.MaxLimit < 1 {
		cfg.MaxLimit = DefaultConfig.MaxLimit
	}
	if cfg.DefaultLimit < 1 {
		cfg.DefaultLimit = min(DefaultConfig.DefaultLimit, cfg.MaxLimit)
	}
	s := &Svc{sources: sources, contacts: contacts, settings: settings, cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// BuildFeed returns one page of the activity contactID may see. Visibility
// uses the settings current at call time; nothing is cached between calls.
func (s *Svc) BuildFeed(ctx context.Context, contactID int64, in domain.FeedInput) (domain.Feed, error) {
	if err := bind.Struct(in); err != nil {
		return domain.Feed{}, err
	}
	limit := in.Limit
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return domain.Feed{}, perr.WithField(perr.Validationf("limit must be %d or less", s.cfg.MaxLimit), "limit")
	}

	viewer, err := s.contacts.Viewer(ctx, contactID)
	if err != nil {
		return domain.Feed{}, err
	}
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return domain.Feed{}, err
	}
	policy := visibility.PolicyFrom(snap)

	log := logger.C(ctx)
	if in.Position != "" {
		if _, err := activity.ParseCursor(in.Position); err != nil {
			log.Debug().Str("position", in.Position).Msg("invalid position; starting from the top")
		}
	}
	m := activity.New(
		s.sources.Reviews(viewer),
		s.sources.Comments(viewer),
		Filter(viewer, policy),
		s.mergerOptions(*log)...,
	)
	page, err := m.Build(ctx, in.Position, limit)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Feed{}, ctx.Err()
		}
		var ue *activity.UnavailableError
		if errors.As(err, &ue) {
			log.Error().Err(ue.Err).Stringer("side", ue.Kind).Str("op", ue.Op).Int64("viewer", contactID).Msg("activity feed failed")
		}
		if errors.Is(err, activity.ErrDataUnavailable) {
			return domain.Feed{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "activity is temporarily unavailable")
		}
		return domain.Feed{}, err
	}
	if page.Truncated {
		log.Warn().Int("items", len(page.Items)).Dur("deadline", s.cfg.SoftDeadline).Msg("activity page truncated")
	}

	out := domain.Feed{
		Items:        make([]domain.Item, 0, len(page.Items)),
		NextPosition: page.Next,
		Exhausted:    page.Exhausted,
		Truncated:    page.Truncated,
	}
	for _, r := range page.Items {
		out.Items = append(out.Items, ToItem(viewer, policy, r))
	}
	return out, nil
}

func (s *Svc) mergerOptions(log logger.Logger) []activity.Option {
	opts := []activity.Option{
		activity.WithParallelRefill(s.cfg.ParallelRefill),
		activity.WithLogger(log),
		activity.WithClock(s.now),
	}
	if n := s.cfg.MinBatch; n > 0 {
		opts = append(opts, activity.WithBatchSize(func(limit int) int { return max(limit, n) }))
	}
	if s.cfg.SoftDeadline > 0 {
		opts = append(opts, activity.WithSoftDeadline(s.cfg.SoftDeadline))
	}
	return opts
}

// Filter applies the review and comment permission rules for v under p
func Filter(v visibility.Viewer, p visibility.Policy) activity.Filter[domain.Row] {
	return activity.FilterFunc[domain.Row](func(r domain.Record) (bool, error) {
		switch r.Kind {
		case activity.KindReview:
			return visibility.CanViewReview(v, p, reviewFacts(r)), nil
		case activity.KindComment:
			c := r.Payload.Comment
			if c == nil {
				return false, nil
			}
			return visibility.CanViewComment(v, p, visibility.CommentFacts{
				ContactID:  r.ContactID,
				Visibility: c.Visibility,
				Draft:      c.Draft,
				Response:   c.Response,
				Access:     r.Payload.Access,
			}), nil
		}
		return false, nil
	})
}

func reviewFacts(r domain.Record) visibility.ReviewFacts {
	f := visibility.ReviewFacts{ContactID: r.ContactID, Submitted: r.SortTime > 0, Access: r.Payload.Access}
	if r.Payload.Review != nil {
		f.ReviewType = r.Payload.Review.Type
	}
	return f
}

// ToItem renders a visible record; the actor is hidden on blind reviews
func ToItem(v visibility.Viewer, p visibility.Policy, r domain.Record) domain.Item {
	it := domain.Item{
		Kind:       r.Kind,
		SortTime:   r.SortTime,
		At:         ptime.FromUnix(r.SortTime),
		ContactID:  r.ContactID,
		PaperID:    r.PaperID,
		PaperTitle: r.Payload.PaperTitle,
		ShortTitle: pstrings.Excerpt(r.Payload.PaperTitle, ShortTitleRunes),
		ActorName:  (cdomain.Contact{FirstName: r.Payload.ActorFirst, LastName: r.Payload.ActorLast, Email: r.Payload.ActorEmail}).Name(),
		ActorEmail: r.Payload.ActorEmail,
	}
	switch {
	case r.Payload.Review != nil:
		rv := r.Payload.Review
		it.ReviewID = &rv.ID
		if rv.Ordinal > 0 {
			it.ReviewOrdinal = &rv.Ordinal
		}
		if !visibility.CanViewReviewerIdentity(v, p, reviewFacts(r)) {
			it.ActorName, it.ActorEmail = "", ""
		}
	case r.Payload.Comment != nil:
		c := r.Payload.Comment
		it.CommentID = &c.ID
		it.Excerpt = pstrings.Excerpt(c.Text, ExcerptRunes)
		it.Response = c.Response
		if visibility.AuthorView(r.Payload.Access) && !v.IsPrivChair() && p.ReviewsBlind && !c.Response && r.ContactID != v.ContactID {
			it.ActorName, it.ActorEmail = "", ""
		}
	}
	return it
}
