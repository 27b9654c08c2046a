package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"

	"transcheck/internal/domain"
)

type GlossaryRepo struct{ *Repo }

func NewGlossaryRepo(db *sql.DB) *GlossaryRepo { return &GlossaryRepo{NewRepo(db)} }

func (r *GlossaryRepo) Upsert(ctx context.Context, g *domain.Glossary) error {
	b, err := json.Marshal(g.Entries)
	if err != nil { return err }
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Insert("glossaries").Columns("name", "entries_json", "updated_at").
		Values(g.Name, string(b), now).
		Suffix("ON CONFLICT(name) DO UPDATE SET entries_json = excluded.entries_json, updated_at = excluded.updated_at")
	sqlStr, args, _ := q.ToSql()
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *GlossaryRepo) Get(ctx context.Context, name string) (*domain.Glossary, error) {
	q := r.SQ.Select("name", "entries_json", "updated_at").From("glossaries").Where(sq.Eq{"name": name}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	g, err := scanGlossary(row)
	if err == sql.ErrNoRows { return nil, nil }
	if err != nil { return nil, err }
	return g, nil
}

func (r *GlossaryRepo) List(ctx context.Context) ([]*domain.Glossary, error) {
	q := r.SQ.Select("name", "entries_json", "updated_at").From("glossaries").OrderBy("name")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil { return nil, err }
	defer rows.Close()
	var out []*domain.Glossary
	for rows.Next() {
		g, err := scanGlossary(rows)
		if err != nil { return nil, err }
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GlossaryRepo) Delete(ctx context.Context, name string) error {
	q := r.SQ.Delete("glossaries").Where(sq.Eq{"name": name})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func scanGlossary(row rowScanner) (*domain.Glossary, error) {
	var g domain.Glossary
	var entriesJSON, updated string
	if err := row.Scan(&g.Name, &entriesJSON, &updated); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(entriesJSON), &g.Entries)
	g.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &g, nil
}
