// Package repo reads contacts from Postgres
package repo

import (
	"context"
	"errors"

	"confsrv/internal/core/visibility"
	"confsrv/internal/modkit/repokit"
	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/store"
	"confsrv/internal/services/contacts/domain"
)

type queries struct{ q repokit.Queryer }

// NewPG returns a binder for the contacts repo
func NewPG() repokit.Binder[domain.Port] {
	return repokit.BindFunc[domain.Port](func(q repokit.Queryer) domain.Port { return &queries{q: q} })
}

func scanContact(r store.Row) (domain.Contact, error) {
	var (
		c     domain.Contact
		roles int32
	)
	if err := r.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &roles); err != nil {
		return c, err
	}
	c.Roles = visibility.Role(roles)
	return c, nil
}

// Contact loads one contact by id
func (r *queries) Contact(ctx context.Context, id int64) (domain.Contact, error) {
	if id <= 0 {
		return domain.Contact{}, perr.Unauthorizedf("unknown contact")
	}
	c, err := store.One(ctx, r.q, scanContact, `
		select contact_id, first_name, last_name, email, roles
		from contact_info where contact_id = $1`, id)
	switch {
	case errors.Is(err, perr.ErrNotFound):
		return c, perr.WithField(perr.Unauthorizedf("unknown contact %d", id), "contact_id")
	case err != nil:
		return c, perr.FromPostgres(err, "load contact")
	}
	return c, nil
}

// Viewer loads the contact's permission identity
func (r *queries) Viewer(ctx context.Context, id int64) (visibility.Viewer, error) {
	c, err := r.Contact(ctx, id)
	if err != nil {
		return visibility.Viewer{}, err
	}
	return c.Viewer(), nil
}
