package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"

	"transcheck/internal/domain"
)

type RunRepo struct{ *Repo }

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{NewRepo(db)} }

const runColumns = "id, mode, status, progress, note, summary_json, issues_json, segments_json, created_at, updated_at"

func (r *RunRepo) Create(ctx context.Context, run *domain.Run) error {
	now := time.Now().UTC()
	run.CreatedAt, run.UpdatedAt = now, now
	ts := now.Format(time.RFC3339)
	q := r.SQ.Insert("runs").
		Columns("id", "mode", "status", "progress", "note", "summary_json", "issues_json", "segments_json", "created_at", "updated_at").
		Values(run.ID, run.Mode, run.Status, run.Progress, run.Note, "{}", "[]", "[]", ts, ts)
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *RunRepo) UpdateProgress(ctx context.Context, runID string, percent int, status string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Update("runs").Set("progress", percent).Set("status", status).Set("updated_at", now).Where(sq.Eq{"id": runID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *RunRepo) SetNote(ctx context.Context, runID string, note string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Update("runs").Set("note", note).Set("updated_at", now).Where(sq.Eq{"id": runID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *RunRepo) SaveResult(ctx context.Context, runID string, summary domain.Summary, issues []domain.Issue, segments []domain.Segment) error {
	if issues == nil { issues = []domain.Issue{} }
	if segments == nil { segments = []domain.Segment{} }
	sb, err := json.Marshal(summary)
	if err != nil { return err }
	ib, err := json.Marshal(issues)
	if err != nil { return err }
	gb, err := json.Marshal(segments)
	if err != nil { return err }
	now := time.Now().UTC().Format(time.RFC3339)
	q := r.SQ.Update("runs").
		Set("summary_json", string(sb)).
		Set("issues_json", string(ib)).
		Set("segments_json", string(gb)).
		Set("updated_at", now).
		Where(sq.Eq{"id": runID})
	sqlStr, args, _ := q.ToSql()
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *RunRepo) Get(ctx context.Context, runID string) (*domain.Run, error) {
	q := r.SQ.Select(runColumns).From("runs").Where(sq.Eq{"id": runID}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	run, err := scanRun(row)
	if err == sql.ErrNoRows { return nil, nil }
	if err != nil { return nil, err }
	return run, nil
}

func (r *RunRepo) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 { limit = 50 }
	q := r.SQ.Select(runColumns).From("runs").OrderBy("created_at DESC").Limit(uint64(limit))
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil { return nil, err }
	defer rows.Close()
	var out []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil { return nil, err }
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *RunRepo) Delete(ctx context.Context, runID string) error {
	q := r.SQ.Delete("runs").Where(sq.Eq{"id": runID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

// DeleteOlderThan removes runs created before cutoff and returns the ids it
// deleted so the caller can clean up run directories on disk.
func (r *RunRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	sel := r.SQ.Select("id").From("runs").Where(sq.Lt{"created_at": cutoff.UTC().Format(time.RFC3339)})
	sqlStr, args, _ := sel.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil { return nil, err }
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil { rows.Close(); return nil, err }
		ids = append(ids, id)
	}
	err = rows.Err()
	rows.Close()
	if err != nil { return nil, err }
	if len(ids) == 0 { return nil, nil }
	del := r.SQ.Delete("runs").Where(sq.Eq{"id": ids})
	sqlStr, args, _ = del.ToSql()
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil { return nil, err }
	return ids, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var summaryJSON, issuesJSON, segmentsJSON string
	var created, updated string
	if err := row.Scan(&run.ID, &run.Mode, &run.Status, &run.Progress, &run.Note, &summaryJSON, &issuesJSON, &segmentsJSON, &created, &updated); err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(summaryJSON), &run.Summary)
	_ = json.Unmarshal([]byte(issuesJSON), &run.Issues)
	_ = json.Unmarshal([]byte(segmentsJSON), &run.Segments)
	run.CreatedAt, _ = time.Parse(time.RFC3339, created)
	run.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &run, nil
}
