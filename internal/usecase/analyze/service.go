// Package analyze runs the extract → align → check pipeline for one run.
package analyze

import (
	"context"
	"errors"
	"fmt"

	extreg "transcheck/internal/adapters/extractor/registry"
	"transcheck/internal/checks"
	"transcheck/internal/domain"
	"transcheck/internal/ports"
	"transcheck/internal/usecase/align"
)

type Deps struct {
	Extractors *extreg.Registry
	Checks     checks.Options
	// Reviewer handles review mode; nil means the mode is unavailable.
	Reviewer  ports.Reviewer
	BatchSize int
}

type Service struct{ d Deps }

func New(d Deps) *Service { return &Service{d: d} }

type Input struct {
	Mode            string
	OriginalName    string
	Original        []byte
	TranslationName string
	Translation     []byte
	Glossary        []domain.GlossaryEntry
}

type Output struct {
	Segments []domain.Segment
	Issues   []domain.Issue
	Summary  domain.Summary
	Note     string
}

// Progress stage boundaries (percent).
const (
	progressExtracted = 10
	progressAligned   = 25
	progressChecked   = 95
)

// Run executes the pipeline. progress is called synchronously after each
// stage; it may be nil.
func (s *Service) Run(ctx context.Context, in Input, progress func(percent int)) (Output, error) {
	report := func(p int) {
		if progress != nil {
			progress(p)
		}
	}

	srcText, err := s.extract(in.OriginalName, in.Original)
	if err != nil {
		return Output{}, fmt.Errorf("extract original: %w", err)
	}
	tgtText, err := s.extract(in.TranslationName, in.Translation)
	if err != nil {
		return Output{}, fmt.Errorf("extract translation: %w", err)
	}
	report(progressExtracted)

	aligned := align.Align(srcText, tgtText)
	report(progressAligned)

	var issues []domain.Issue
	switch in.Mode {
	case domain.ModeReview:
		issues, err = s.review(ctx, aligned.Segments, report)
		if err != nil {
			return Output{}, err
		}
	default:
		issues = checks.Run(aligned.Segments, in.Glossary, s.d.Checks)
		report(progressChecked)
	}

	return Output{
		Segments: aligned.Segments,
		Issues:   issues,
		Summary:  domain.Summarize(len(aligned.Segments), issues),
		Note:     aligned.Note,
	}, nil
}

func (s *Service) extract(filename string, data []byte) (string, error) {
	e, ok := s.d.Extractors.ForFilename(filename)
	if !ok {
		return "", fmt.Errorf("no extractor for %q", filename)
	}
	return e.Extract(data)
}

// review sends aligned segments to the external reviewer in batches and
// collects findings. A batch failure fails the whole run; the error ends up
// in the run status.
func (s *Service) review(ctx context.Context, segments []domain.Segment, report func(int)) ([]domain.Issue, error) {
	if s.d.Reviewer == nil {
		return nil, errors.New("review mode not configured: missing api key or base url")
	}
	batchSize := s.d.BatchSize
	if batchSize <= 0 {
		batchSize = 8
	}
	var issues []domain.Issue
	total := len(segments)
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		batch := make([]ports.Pair, 0, end-start)
		for _, seg := range segments[start:end] {
			batch = append(batch, ports.Pair{Segment: seg.Index, Source: seg.Source, Target: seg.Target})
		}
		found, err := s.d.Reviewer.Review(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("review batch %d-%d: %w", start+1, end, err)
		}
		for _, it := range found {
			if it.Segment < 1 || it.Segment > total {
				continue
			}
			seg := segments[it.Segment-1]
			it.Source, it.Target = seg.Source, seg.Target
			issues = append(issues, it)
		}
		report(progressAligned + (progressChecked-progressAligned)*end/total)
	}
	return issues, nil
}
