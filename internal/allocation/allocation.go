package allocation

import (
	"fmt"
	"math"
)

// Total is the fixed sum every allocation must reach.
const Total = 100

// DefaultStep is the slider granularity used when the caller does not supply one.
const DefaultStep = 5

// Allocation maps category id to an integer percentage. Allocations produced by
// this package hold an entry for every catalog category and sum to Total.
// Functions here never modify an Allocation they are given.
type Allocation map[string]int

// Entry is one category's percentage in catalog order.
type Entry struct {
	CategoryID string `json:"category_id"`
	Percent    int    `json:"percent"`
}

// Sum returns the total of all percentages.
func (a Allocation) Sum() int {
	var s int
	for _, v := range a {
		s += v
	}
	return s
}

// Clone returns an independent copy of a.
func (a Allocation) Clone() Allocation {
	out := make(Allocation, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Equal reports whether a and b hold the same non-zero percentages.
func (a Allocation) Equal(b Allocation) bool {
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}
	return true
}

// Validate checks that a only names catalog categories, that every value lies
// in [0,100] and that the values sum to exactly 100. Missing entries count as 0.
func (a Allocation) Validate(categories []Category) error {
	index, err := indexCatalog(categories)
	if err != nil {
		return err
	}
	for id, v := range a {
		if _, ok := index[id]; !ok {
			return fmt.Errorf("category %q not in catalog: %w", id, ErrInvalidAllocation)
		}
		if v < 0 || v > Total {
			return fmt.Errorf("category %q has %d%%: %w", id, v, ErrInvalidAllocation)
		}
	}
	if s := a.Sum(); s != Total {
		return fmt.Errorf("percentages sum to %d: %w", s, ErrInvalidAllocation)
	}
	return nil
}

// Ordered lists a's percentages in catalog order. Categories absent from a
// are reported as 0.
func Ordered(a Allocation, categories []Category) []Entry {
	out := make([]Entry, 0, len(categories))
	for _, c := range categories {
		out = append(out, Entry{CategoryID: c.ID, Percent: a[c.ID]})
	}
	return out
}

// SnapPercent clamps value to [0,100] and rounds it to the nearest multiple of
// step, the way a slider control reports positions. A step <= 0 means 1.
func SnapPercent(value, step int) int {
	if step <= 0 {
		step = 1
	}
	value = clampInt(value, 0, Total)
	snapped := roundHalfUp(float64(value)/float64(step)) * step
	return clampInt(snapped, 0, Total)
}

// roundHalfUp rounds to the nearest integer with .5 going toward +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// absorbDrift adds drift to the first candidate. A negative drift that would
// push the candidate below zero leaves it at zero and carries the remainder
// to the next candidate.
func absorbDrift(a Allocation, candidates []string, drift int) {
	if drift >= 0 {
		if len(candidates) > 0 {
			a[candidates[0]] += drift
		}
		return
	}
	for _, id := range candidates {
		if drift == 0 {
			return
		}
		take := min(a[id], -drift)
		a[id] -= take
		drift += take
	}
}
