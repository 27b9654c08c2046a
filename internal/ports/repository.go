package ports

import (
	"context"
	"time"

	"transcheck/internal/domain"
)

type RunRepository interface {
	Create(ctx context.Context, r *domain.Run) error
	UpdateProgress(ctx context.Context, runID string, percent int, status string) error
	SetNote(ctx context.Context, runID string, note string) error
	SaveResult(ctx context.Context, runID string, summary domain.Summary, issues []domain.Issue, segments []domain.Segment) error
	Get(ctx context.Context, runID string) (*domain.Run, error)
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	Delete(ctx context.Context, runID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}

type GlossaryRepository interface {
	Upsert(ctx context.Context, g *domain.Glossary) error
	Get(ctx context.Context, name string) (*domain.Glossary, error)
	List(ctx context.Context) ([]*domain.Glossary, error)
	Delete(ctx context.Context, name string) error
}
