package allocation

import "fmt"

// ImpactScore returns the share-weighted average of the categories' base
// impact scores, rounded half up. An allocation whose values sum to zero
// scores 0. Negative shares are rejected with ErrInvalidAllocation.
func ImpactScore(a Allocation, categories []Category) (int, error) {
	for id, pct := range a {
		if pct < 0 {
			return 0, fmt.Errorf("category %q has %d%%: %w", id, pct, ErrInvalidAllocation)
		}
	}

	totalPct := a.Sum()
	if totalPct == 0 {
		return 0, nil
	}

	base := make(map[string]int, len(categories))
	for _, c := range categories {
		base[c.ID] = c.BaseImpactScore
	}

	var weighted int
	for id, pct := range a {
		if pct == 0 {
			continue
		}
		score, ok := base[id]
		if !ok {
			return 0, fmt.Errorf("category %q: %w", id, ErrUnknownCategory)
		}
		weighted += score * pct
	}

	return roundHalfUp(float64(weighted) / float64(totalPct)), nil
}
