package plan

import (
	"context"

	"runcoach/internal/store"
)

// DescriptionEnricher rewrites a planned workout's description, typically
// via an external language model. Enrichment is advisory: any error is
// swallowed by the generator and the deterministic template kept, so an
// implementation never needs to guarantee availability.
type DescriptionEnricher interface {
	Describe(ctx context.Context, workout store.PlannedWorkout, phase store.Phase) (string, error)
}

// TemplateEnricher is the no-network default: it returns the same
// deterministic description the generator already templated.
type TemplateEnricher struct{}

// Describe implements DescriptionEnricher.
func (TemplateEnricher) Describe(_ context.Context, workout store.PlannedWorkout, _ store.Phase) (string, error) {
	return describeWorkout(workout), nil
}
