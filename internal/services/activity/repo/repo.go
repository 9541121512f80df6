// Package repo reads reviews and comments for the activity feed from Postgres
package repo

import (
	"context"
	"fmt"
	"strings"

	"confsrv/internal/core/activity"
	"confsrv/internal/core/visibility"
	"confsrv/internal/modkit/repokit"
	perr "confsrv/internal/platform/errors"
	"confsrv/internal/platform/store"
	"confsrv/internal/services/activity/domain"
)

// ExcerptBytes bounds the comment text fetched per row
const ExcerptBytes = 1200

// PG serves both feed sources from one database; every fetch runs in its own
// transaction so begin hooks (read only, statement timeout) apply
type PG struct {
	db repokit.TxRunner
}

// NewPG returns the Postgres sources
func NewPG(db repokit.TxRunner) *PG {
	if db == nil {
		panic("activity repo requires a non nil TxRunner")
	}
	return &PG{db: db}
}

var _ domain.Sources = (*PG)(nil)

// Reviews is the submitted-review source for v
func (p *PG) Reviews(v visibility.Viewer) activity.Source[domain.Row] {
	return activity.SourceFunc[domain.Row](func(ctx context.Context, cur activity.Cursor, n int) ([]domain.Record, error) {
		return p.fetch(ctx, reviewQuery, v, cur, n)
	})
}

// Comments is the comment source for v
func (p *PG) Comments(v visibility.Viewer) activity.Source[domain.Row] {
	return activity.SourceFunc[domain.Row](func(ctx context.Context, cur activity.Cursor, n int) ([]domain.Record, error) {
		return p.fetch(ctx, commentQuery, v, cur, n)
	})
}

type query struct {
	kind   activity.Kind
	table  string // alias of the activity table
	time   string // its sort time column
	sql    string // select and joins, $1 is the viewer
	always string // coarse filter
	scan   func(store.Row) (domain.Record, error)
}

// joins shared by both sources: paper, actor and the viewer's own relation to the paper
const access = `
		p.title, p.manager_contact_id, p.time_withdrawn,
		c.first_name, c.last_name, c.email,
		coalesce(pc.conflict_type, 0), coalesce(mr.review_type, 0),
		coalesce(mr.review_submitted, 0) > 0, coalesce(mr.review_needs_submit, 0) > 0`

func joins(alias string) string {
	return fmt.Sprintf(`
		join contact_info c on c.contact_id = %[1]s.contact_id
		join paper p on p.paper_id = %[1]s.paper_id
		left join paper_conflict pc on pc.paper_id = %[1]s.paper_id and pc.contact_id = $1
		left join paper_review mr on mr.paper_id = %[1]s.paper_id and mr.contact_id = $1`, alias)
}

var reviewQuery = query{
	kind:  activity.KindReview,
	table: "r",
	time:  "r.review_submitted",
	sql: `select r.review_submitted, r.contact_id, r.paper_id,
		r.review_id, r.review_type, r.review_ordinal,` + access + `
		from paper_review r` + joins("r"),
	always: "r.review_submitted > 0",
	scan: func(row store.Row) (domain.Record, error) {
		rec := domain.Record{Kind: activity.KindReview}
		rv := &domain.ReviewRow{}
		err := row.Scan(append([]any{
			&rec.SortTime, &rec.ContactID, &rec.PaperID,
			&rv.ID, &rv.Type, &rv.Ordinal,
		}, accessDest(&rec.Payload)...)...)
		rec.Payload.Review = rv
		return rec, err
	},
}

var commentQuery = query{
	kind:  activity.KindComment,
	table: "cm",
	time:  "cm.time_modified",
	sql: fmt.Sprintf(`select cm.time_modified, cm.contact_id, cm.paper_id,
		cm.comment_id, left(cm.comment, %d), cm.visibility, cm.draft, cm.response,`, ExcerptBytes) + access + `
		from paper_comment cm` + joins("cm"),
	always: "cm.time_modified > 0 and (not cm.draft or cm.contact_id = $1)",
	scan: func(row store.Row) (domain.Record, error) {
		rec := domain.Record{Kind: activity.KindComment}
		cm := &domain.CommentRow{}
		var vis int16
		err := row.Scan(append([]any{
			&rec.SortTime, &rec.ContactID, &rec.PaperID,
			&cm.ID, &cm.Text, &vis, &cm.Draft, &cm.Response,
		}, accessDest(&rec.Payload)...)...)
		cm.Visibility = visibility.CommentVisibility(vis)
		rec.Payload.Comment = cm
		return rec, err
	},
}

func accessDest(p *domain.Row) []any {
	return []any{
		&p.PaperTitle, &p.Access.ManagerContactID, &p.Access.TimeWithdrawn,
		&p.ActorFirst, &p.ActorLast, &p.ActorEmail,
		&p.Access.ConflictType, &p.Access.MyReviewType,
		&p.Access.MyReviewSubmitted, &p.Access.MyReviewNeedsSubmit,
	}
}

// build renders the statement for one fetch. Rows strictly after the cursor in
// (time desc, contact asc, paper asc) order; non-chairs never see rows of papers
// they are conflicted with unless they are its author or manager.
func (q query) build(v visibility.Viewer, cur activity.Cursor, n int) (string, []any) {
	var b strings.Builder
	b.WriteString(q.sql)
	b.WriteString("\n\t\twhere ")
	b.WriteString(q.always)

	args := []any{v.ContactID}
	if !v.IsPrivChair() {
		fmt.Fprintf(&b, "\n\t\t  and (coalesce(pc.conflict_type, 0) = 0 or pc.conflict_type >= %d or p.manager_contact_id = $1)",
			visibility.ConflictAuthor)
	}
	if k, ok := cur.Bound(); ok {
		args = append(args, k.SortTime, k.ContactID, k.PaperID)
		t, a := q.time, q.table
		fmt.Fprintf(&b, "\n\t\t  and (%[1]s < $2 or (%[1]s = $2 and %[2]s.contact_id > $3) or (%[1]s = $2 and %[2]s.contact_id = $3 and %[2]s.paper_id > $4))", t, a)
	}
	args = append(args, n)
	fmt.Fprintf(&b, "\n\t\torder by %[1]s desc, %[2]s.contact_id asc, %[2]s.paper_id asc\n\t\tlimit $%[3]d", q.time, q.table, len(args))
	return b.String(), args
}

func (p *PG) fetch(ctx context.Context, q query, v visibility.Viewer, cur activity.Cursor, n int) ([]domain.Record, error) {
	if cur.IsExhausted() || n <= 0 {
		return nil, nil
	}
	sql, args := q.build(v, cur, n)
	var out []domain.Record
	err := repokit.WithTx(ctx, p.db, func(tx repokit.Queryer) error {
		var err error
		out, err = store.Many(ctx, tx, q.scan, sql, args...)
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, perr.FromPostgres(err, "fetch "+q.kind.String()+"s")
	}
	return out, nil
}
