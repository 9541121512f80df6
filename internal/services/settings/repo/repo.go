// Package repo reads and writes the settings table
package repo

import (
	"context"

	"confsrv/internal/modkit/repokit"
	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/store"
	"confsrv/internal/services/settings/domain"
)

type queries struct{ q repokit.Queryer }

// NewPG returns a binder for the Postgres settings repo
func NewPG() repokit.Binder[domain.Repo] {
	return repokit.BindFunc[domain.Repo](func(q repokit.Queryer) domain.Repo { return &queries{q: q} })
}

func scanSetting(r store.Row) (domain.Setting, error) {
	var s domain.Setting
	err := r.Scan(&s.Name, &s.Value, &s.Data)
	return s, err
}

// All loads every setting
func (r *queries) All(ctx context.Context) ([]domain.Setting, error) {
	rows, err := store.Many(ctx, r.q, scanSetting, `select name, value, data from settings order by name`)
	if err != nil {
		return nil, perr.FromPostgres(err, "load settings")
	}
	return rows, nil
}

// Upsert writes s, replacing both value and data
func (r *queries) Upsert(ctx context.Context, s domain.Setting) error {
	const sql = `
		insert into settings (name, value, data) values ($1, $2, $3)
		on conflict (name) do update set value = excluded.value, data = excluded.data`
	if _, err := r.q.Exec(ctx, sql, s.Name, s.Value, s.Data); err != nil {
		return perr.FromPostgres(err, "save setting")
	}
	return nil
}

// Delete removes the named setting and reports whether it existed
func (r *queries) Delete(ctx context.Context, name string) (bool, error) {
	tag, err := r.q.Exec(ctx, `delete from settings where name = $1`, name)
	if err != nil {
		return false, perr.FromPostgres(err, "delete setting")
	}
	return tag.RowsAffected() > 0, nil
}
