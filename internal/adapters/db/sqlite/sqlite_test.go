package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcheck/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepo(testDB(t))

	run := &domain.Run{ID: "run-1", Mode: domain.ModeChecks, Status: domain.StatusQueued}
	require.NoError(t, repo.Create(ctx, run))

	require.NoError(t, repo.UpdateProgress(ctx, "run-1", 40, domain.StatusRunning))
	require.NoError(t, repo.SetNote(ctx, "run-1", "aligned 2 of 3 source segments"))

	issues := []domain.Issue{
		{Type: "number_mismatch", Severity: domain.SeverityHigh, Segment: 1, Source: "1,250.50", Target: "1.250"},
	}
	segments := []domain.Segment{{Index: 1, Source: "a", Target: "b"}}
	summary := domain.Summarize(1, issues)
	require.NoError(t, repo.SaveResult(ctx, "run-1", summary, issues, segments))
	require.NoError(t, repo.UpdateProgress(ctx, "run-1", 100, domain.StatusDone))

	got, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, "aligned 2 of 3 source segments", got.Note)
	assert.Equal(t, 1, got.Summary.High)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, "number_mismatch", got.Issues[0].Type)
	require.Len(t, got.Segments, 1)
}

func TestRunRepoGetMissing(t *testing.T) {
	repo := NewRunRepo(testDB(t))
	got, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunRepoDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepo(testDB(t))

	require.NoError(t, repo.Create(ctx, &domain.Run{ID: "old", Mode: domain.ModeChecks, Status: domain.StatusDone}))
	require.NoError(t, repo.Create(ctx, &domain.Run{ID: "new", Mode: domain.ModeChecks, Status: domain.StatusDone}))

	ids, err := repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = repo.DeleteOlderThan(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old", "new"}, ids)

	got, err := repo.Get(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGlossaryRepoUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewGlossaryRepo(testDB(t))

	g := &domain.Glossary{Name: "legal", Entries: []domain.GlossaryEntry{{Term: "contract", Translation: "contrato"}}}
	require.NoError(t, repo.Upsert(ctx, g))

	g.Entries = append(g.Entries, domain.GlossaryEntry{Term: "clause", Translation: "cláusula"})
	require.NoError(t, repo.Upsert(ctx, g))

	got, err := repo.Get(ctx, "legal")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Entries, 2)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "legal"))
	got, err = repo.Get(ctx, "legal")
	require.NoError(t, err)
	assert.Nil(t, got)
}
