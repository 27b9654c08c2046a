package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcheck/internal/adapters/db/sqlite"
	extreg "transcheck/internal/adapters/extractor/registry"
	"transcheck/internal/adapters/extractor/plaintext"
	"transcheck/internal/checks"
	"transcheck/internal/domain"
	"transcheck/internal/usecase/analyze"
)

func newRunner(t *testing.T) (*Runner, *sqlite.RunRepo) {
	t.Helper()
	db, err := sqlite.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	runs := sqlite.NewRunRepo(db)
	reg := extreg.New()
	reg.Register(plaintext.New())
	svc := analyze.New(analyze.Deps{Extractors: reg, Checks: checks.Defaults()})
	return NewRunner(Deps{Runs: runs, Analyzer: svc, DataDir: t.TempDir(), Retention: time.Hour}), runs
}

func waitDone(t *testing.T, runs *sqlite.RunRepo, id string) *domain.Run {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, err := runs.Get(context.Background(), id)
		require.NoError(t, err)
		if run != nil && run.Status != domain.StatusQueued && run.Status != domain.StatusRunning {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("run did not finish in time")
	return nil
}

func TestStartProcessesRun(t *testing.T) {
	runner, runs := newRunner(t)
	id, err := runner.Start(context.Background(), StartParams{
		OriginalName: "original.txt", Original: []byte("Paris is beautiful."),
		TranslationName: "translation.txt", Translation: []byte("Paris is beautiful."),
	})
	require.NoError(t, err)

	run := waitDone(t, runs, id)
	assert.Equal(t, domain.StatusDone, run.Status)
	assert.Equal(t, 100, run.Progress)
	assert.Equal(t, 1, run.Summary.Segments)
	assert.Equal(t, run.Summary.Medium, 1)

	// uploads persisted under the run dir
	_, err = os.Stat(filepath.Join(runner.RunDir(id), "original"))
	assert.NoError(t, err)
}

func TestStartReviewModeWithoutReviewerErrors(t *testing.T) {
	runner, runs := newRunner(t)
	id, err := runner.Start(context.Background(), StartParams{
		Mode:         domain.ModeReview,
		OriginalName: "a.txt", Original: []byte("One."),
		TranslationName: "b.txt", Translation: []byte("Uno."),
	})
	require.NoError(t, err)

	run := waitDone(t, runs, id)
	assert.Contains(t, run.Status, "error:")
}
