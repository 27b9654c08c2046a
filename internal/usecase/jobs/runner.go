// Package jobs owns the run lifecycle: create the record, process it on a
// goroutine, update progress through the repository so the polling endpoints
// see it. One run either completes or ends in an error status; there is no
// cancellation.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"transcheck/internal/domain"
	"transcheck/internal/ports"
	"transcheck/internal/usecase/analyze"
)

type Deps struct {
	Runs     ports.RunRepository
	Analyzer *analyze.Service
	// DataDir holds per-run upload directories (<DataDir>/runs/<id>).
	DataDir string
	// Retention is how long finished runs are kept; 0 disables the sweep.
	Retention time.Duration
}

type Runner struct {
	d    Deps
	cron *cron.Cron
}

func NewRunner(d Deps) *Runner { return &Runner{d: d} }

type StartParams struct {
	Mode            string
	OriginalName    string
	Original        []byte
	TranslationName string
	Translation     []byte
	Glossary        []domain.GlossaryEntry
}

// Start creates the run record, persists the uploads under the run
// directory, and processes the run on its own goroutine. The returned id is
// immediately pollable.
func (r *Runner) Start(ctx context.Context, p StartParams) (string, error) {
	if p.Mode == "" {
		p.Mode = domain.ModeChecks
	}
	runID := uuid.NewString()
	run := &domain.Run{ID: runID, Mode: p.Mode, Status: domain.StatusQueued}
	if err := r.d.Runs.Create(ctx, run); err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	if err := r.saveUploads(runID, p); err != nil {
		r.fail(runID, err)
		return "", err
	}
	slog.Info("run started", "run_id", runID, "mode", p.Mode,
		"original", p.OriginalName, "translation", p.TranslationName)
	go r.process(context.Background(), runID, p)
	return runID, nil
}

func (r *Runner) process(ctx context.Context, runID string, p StartParams) {
	_ = r.d.Runs.UpdateProgress(ctx, runID, 0, domain.StatusRunning)
	out, err := r.d.Analyzer.Run(ctx, analyze.Input{
		Mode:            p.Mode,
		OriginalName:    p.OriginalName,
		Original:        p.Original,
		TranslationName: p.TranslationName,
		Translation:     p.Translation,
		Glossary:        p.Glossary,
	}, func(percent int) {
		_ = r.d.Runs.UpdateProgress(ctx, runID, percent, domain.StatusRunning)
	})
	if err != nil {
		r.fail(runID, err)
		return
	}
	if out.Note != "" {
		_ = r.d.Runs.SetNote(ctx, runID, out.Note)
	}
	if err := r.d.Runs.SaveResult(ctx, runID, out.Summary, out.Issues, out.Segments); err != nil {
		r.fail(runID, err)
		return
	}
	_ = r.d.Runs.UpdateProgress(ctx, runID, 100, domain.StatusDone)
	slog.Info("run done", "run_id", runID, "segments", out.Summary.Segments,
		"high", out.Summary.High, "medium", out.Summary.Medium, "low", out.Summary.Low)
}

func (r *Runner) fail(runID string, err error) {
	slog.Error("run failed", "run_id", runID, "error", err)
	_ = r.d.Runs.UpdateProgress(context.Background(), runID, 100, "error: "+err.Error())
}

func (r *Runner) saveUploads(runID string, p StartParams) error {
	dir := r.RunDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("make run dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "original"), p.Original, 0o644); err != nil {
		return fmt.Errorf("save original: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "translation"), p.Translation, 0o644); err != nil {
		return fmt.Errorf("save translation: %w", err)
	}
	return nil
}

// RunDir returns the on-disk directory for a run's uploaded files.
func (r *Runner) RunDir(runID string) string {
	return filepath.Join(r.d.DataDir, "runs", runID)
}

// RemoveRunDir deletes a run's uploaded files. Missing dirs are fine.
func (r *Runner) RemoveRunDir(runID string) {
	if err := os.RemoveAll(r.RunDir(runID)); err != nil {
		slog.Warn("remove run dir", "run_id", runID, "error", err)
	}
}

// StartRetentionSweep schedules an hourly purge of runs older than the
// retention window. No-op when retention is disabled.
func (r *Runner) StartRetentionSweep() {
	if r.d.Retention <= 0 {
		return
	}
	r.cron = cron.New()
	_, _ = r.cron.AddFunc("@hourly", r.sweep)
	r.cron.Start()
}

func (r *Runner) StopRetentionSweep() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

func (r *Runner) sweep() {
	cutoff := time.Now().UTC().Add(-r.d.Retention)
	ids, err := r.d.Runs.DeleteOlderThan(context.Background(), cutoff)
	if err != nil {
		slog.Error("retention sweep failed", "error", err)
		return
	}
	for _, id := range ids {
		r.RemoveRunDir(id)
	}
	if len(ids) > 0 {
		slog.Info("retention sweep", "deleted", len(ids), "cutoff", cutoff.Format(time.RFC3339))
	}
}
