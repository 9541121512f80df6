// Package service loads and saves conference settings
package service

import (
	"context"

	"confsrv/internal/modkit/repokit"
	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/logger"
	"confsrv/internal/platform/net/http/bind"
	aldomain "confsrv/internal/services/actionlog/domain"
	cdomain "confsrv/internal/services/contacts/domain"
	"confsrv/internal/services/settings/domain"
)

// Service defines the settings service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the settings service
type Svc struct {
	db       repokit.TxRunner
	binder   repokit.Binder[domain.Repo]
	cache    domain.Cache
	contacts cdomain.Port
	actions  aldomain.Port
}

// Option configures Svc
type Option func(*Svc)

// WithCache read-through caches snapshots; nil disables caching
func WithCache(c domain.Cache) Option { return func(s *Svc) { s.cache = c } }

// New constructs the settings service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo], contacts cdomain.Port, actions aldomain.Port, opts ...Option) *Svc {
	if db == nil {
		panic("settings.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("settings.Service requires a non nil Repo binder")
	}
	if contacts == nil || actions == nil {
		panic("settings.Service requires contacts and action log ports")
	}
	s := &Svc{db: db, binder: binder, contacts: contacts, actions: actions}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns the current settings, from cache when possible; cache
// failures fall back to Postgres
func (s *Svc) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	if s.cache != nil {
		snap, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			logger.C(ctx).Warn().Err(err).Msg("settings cache read failed")
		case ok:
			return snap, nil
		}
	}

	rows, err := s.binder.Bind(s.db).All(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap := domain.NewSnapshot(rows)

	if s.cache != nil {
		if err := s.cache.Put(ctx, snap); err != nil {
			logger.C(ctx).Warn().Err(err).Msg("settings cache write failed")
		}
	}
	return snap, nil
}

// Get returns the named setting; PC members and chairs only
func (s *Svc) Get(ctx context.Context, contactID int64, name string) (domain.Setting, error) {
	v, err := s.contacts.Viewer(ctx, contactID)
	if err != nil {
		return domain.Setting{}, err
	}
	if !v.IsPC() && !v.IsPrivChair() {
		return domain.Setting{}, perr.Forbiddenf("settings are visible to the program committee only")
	}
	if err := bind.Struct(domain.NameParam{Name: name}); err != nil {
		return domain.Setting{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Setting{}, err
	}
	st, ok := snap.Get(name)
	if !ok {
		return domain.Setting{}, perr.WithField(perr.NotFoundf("setting %s not found", name), "name")
	}
	return st, nil
}

// Save upserts or deletes the named setting for a chair, records the change
// and invalidates the cached snapshot
func (s *Svc) Save(ctx context.Context, who aldomain.Actor, name string, in domain.SaveInput) (*domain.Setting, error) {
	v, err := s.contacts.Viewer(ctx, who.ContactID)
	if err != nil {
		return nil, err
	}
	if !v.IsPrivChair() {
		return nil, perr.Forbiddenf("only chairs can change settings")
	}
	if err := bind.Struct(domain.NameParam{Name: name}); err != nil {
		return nil, err
	}
	if err := bind.Struct(in); err != nil {
		return nil, err
	}

	var (
		out    *domain.Setting
		action string
	)
	err = repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if in.Value == nil && in.Data == nil {
			existed, err := r.Delete(ctx, name)
			if err != nil {
				return err
			}
			if existed {
				action = "Deleted setting " + name
			}
			return nil
		}
		st := domain.Setting{Name: name, Data: in.Data}
		if in.Value != nil {
			st.Value = *in.Value
		}
		if err := r.Upsert(ctx, st); err != nil {
			return err
		}
		out, action = &st, "Changed setting "+name
		return nil
	})
	if err != nil {
		return nil, err
	}
	if action == "" {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Drop(ctx); err != nil {
			logger.C(ctx).Error().Err(err).Str("setting", name).Msg("settings cache invalidation failed")
		}
	}
	if err := s.actions.Log(ctx, who, action); err != nil {
		logger.C(ctx).Warn().Err(err).Str("setting", name).Msg("setting change not recorded")
	}
	return out, nil
}
