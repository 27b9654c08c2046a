package ports

import (
	"context"

	"transcheck/internal/domain"
)

// Pair is one aligned segment sent out for external review.
type Pair struct {
	Segment int    `json:"segment"`
	Source  string `json:"src"`
	Target  string `json:"tgt"`
}

// Reviewer sends batches of aligned segments to a conversational model and
// returns findings in the same Issue shape the deterministic checks use.
type Reviewer interface {
	Review(ctx context.Context, batch []Pair) ([]domain.Issue, error)
	Test(ctx context.Context) error
}
