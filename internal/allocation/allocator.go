package allocation

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
)

// Allocator derives the starting allocation for a donation from the catalog's
// urgency classifications.
type Allocator struct {
	weights UrgencyWeights
	logger  *slog.Logger
}

// NewAllocator creates an Allocator with the given urgency weights.
func NewAllocator(weights UrgencyWeights, logger *slog.Logger) *Allocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator{weights: weights, logger: logger}
}

// Weights returns the urgency weights in use.
func (a *Allocator) Weights() UrgencyWeights {
	return a.weights
}

// Initial returns the starting allocation across categories.
//
// With a pinnedID the donor already chose one cause, so it receives 100 and
// every other category 0. Without one, each category gets its urgency weight's
// share of 100, rounded half up; the rounding drift is added to the category
// with the largest share, earliest in catalog order on ties.
func (a *Allocator) Initial(categories []Category, pinnedID string) (Allocation, error) {
	index, err := indexCatalog(categories)
	if err != nil {
		return nil, err
	}

	out := make(Allocation, len(categories))
	for _, c := range categories {
		out[c.ID] = 0
	}

	if pinnedID != "" {
		if _, ok := index[pinnedID]; !ok {
			return nil, fmt.Errorf("pinned category %q: %w", pinnedID, ErrUnknownCategory)
		}
		out[pinnedID] = Total
		return out, nil
	}

	weights := make([]int, len(categories))
	var totalWeight int
	for i, c := range categories {
		weights[i] = a.weights.Weight(c.Urgency)
		totalWeight += weights[i]
	}
	if totalWeight == 0 {
		return nil, fmt.Errorf("total urgency weight is zero: %w", ErrInvalidCatalog)
	}

	var sum int
	for i, c := range categories {
		pct := roundHalfUp(float64(weights[i]) / float64(totalWeight) * Total)
		out[c.ID] = pct
		sum += pct
	}

	if drift := Total - sum; drift != 0 {
		// Largest provisional share first; the stable sort keeps catalog order on ties.
		order := make([]string, len(categories))
		for i, c := range categories {
			order[i] = c.ID
		}
		slices.SortStableFunc(order, func(x, y string) int {
			return cmp.Compare(out[y], out[x])
		})
		absorbDrift(out, order, drift)
		a.logger.Debug("initial allocation drift corrected", "drift", drift, "category", order[0])
	}

	return out, nil
}
