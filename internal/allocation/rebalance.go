package allocation

import "fmt"

// Rebalance sets changedID to newValue and spreads the difference over the
// other categories in proportion to their current shares, keeping the total at
// exactly 100. previous is not modified.
//
// Values that would go negative are clamped to zero; the shortfall is not
// redistributed. Any remaining rounding drift goes to the first other category
// (catalog order) that still holds a positive share, or to changedID when none
// does. Setting a category to its current value returns an equal allocation.
func Rebalance(previous Allocation, categories []Category, changedID string, newValue int) (Allocation, error) {
	index, err := indexCatalog(categories)
	if err != nil {
		return nil, err
	}
	if _, ok := index[changedID]; !ok {
		return nil, fmt.Errorf("category %q: %w", changedID, ErrUnknownCategory)
	}
	if newValue < 0 || newValue > Total {
		return nil, fmt.Errorf("%d: %w", newValue, ErrInvalidPercent)
	}
	if err := previous.Validate(categories); err != nil {
		return nil, err
	}

	delta := newValue - previous[changedID]

	working := make(Allocation, len(categories))
	working[changedID] = newValue

	others := make([]string, 0, len(categories)-1)
	var othersSum int
	for _, c := range categories {
		if c.ID == changedID {
			continue
		}
		others = append(others, c.ID)
		othersSum += previous[c.ID]
	}

	for _, id := range others {
		if othersSum == 0 {
			working[id] = 0
			continue
		}
		proportion := float64(previous[id]) / float64(othersSum)
		working[id] = max(0, roundHalfUp(float64(previous[id])-float64(delta)*proportion))
	}

	if drift := Total - working.Sum(); drift != 0 {
		candidates := make([]string, 0, len(categories))
		for _, id := range others {
			if working[id] > 0 {
				candidates = append(candidates, id)
			}
		}
		candidates = append(candidates, changedID)
		absorbDrift(working, candidates, drift)
	}

	return working, nil
}
