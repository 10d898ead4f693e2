package allocation

import "fmt"

// UrgencyWeights maps each urgency classification to its relative priority
// when deriving an initial allocation.
type UrgencyWeights struct {
	High       int
	MediumHigh int
	Medium     int
	Low        int
	// Default applies to missing or unrecognised urgencies.
	Default int
}

// DefaultUrgencyWeights returns High=4, MediumHigh=3, Medium=2, Low=1, unknown=2.
func DefaultUrgencyWeights() UrgencyWeights {
	return UrgencyWeights{
		High:       4,
		MediumHigh: 3,
		Medium:     2,
		Low:        1,
		Default:    2,
	}
}

// Weight returns the weight for u.
func (w UrgencyWeights) Weight(u Urgency) int {
	switch u {
	case UrgencyHigh:
		return w.High
	case UrgencyMediumHigh:
		return w.MediumHigh
	case UrgencyMedium:
		return w.Medium
	case UrgencyLow:
		return w.Low
	default:
		return w.Default
	}
}

// Validate checks that no weight is negative and at least one is positive.
func (w UrgencyWeights) Validate() error {
	all := []int{w.High, w.MediumHigh, w.Medium, w.Low, w.Default}
	var total int
	for _, v := range all {
		if v < 0 {
			return fmt.Errorf("negative urgency weight: %d", v)
		}
		total += v
	}
	if total == 0 {
		return fmt.Errorf("urgency weights are all zero")
	}
	return nil
}
