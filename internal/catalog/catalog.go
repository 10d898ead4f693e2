// Package catalog supplies the ordered category list the allocation engine
// works over, from whichever content source the deployment is configured for.
package catalog

import (
	"context"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

// Source loads the current category catalog. Implementations must return
// categories in a stable, deterministic order.
type Source interface {
	Categories(ctx context.Context) ([]allocation.Category, error)
}

// Builtin is the catalog shipped with the service, used when no external
// source is configured.
type Builtin struct{}

func (Builtin) Categories(_ context.Context) ([]allocation.Category, error) {
	return DefaultCategories(), nil
}

// DefaultCategories returns the built-in donation causes.
func DefaultCategories() []allocation.Category {
	return []allocation.Category{
		{ID: "school", Name: "School Supplies", Urgency: allocation.UrgencyMedium, BaseImpactScore: 85},
		{ID: "flood", Name: "Flood Relief", Urgency: allocation.UrgencyHigh, BaseImpactScore: 92},
		{ID: "food", Name: "Food Bank", Urgency: allocation.UrgencyMediumHigh, BaseImpactScore: 88},
		{ID: "general", Name: "General Fund", Urgency: allocation.UrgencyMedium, BaseImpactScore: 75},
	}
}
