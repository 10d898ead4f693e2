package allocation

import (
	"fmt"
	"strings"
)

// Urgency classifies how pressing a charitable category currently is.
type Urgency string

const (
	UrgencyHigh       Urgency = "high"
	UrgencyMediumHigh Urgency = "medium_high"
	UrgencyMedium     Urgency = "medium"
	UrgencyLow        Urgency = "low"
)

var urgencyReplacer = strings.NewReplacer("-", "_", " ", "_")

// ParseUrgency normalises labels such as "Medium-High" or "medium high".
// Unrecognised labels are kept as-is and weigh the default amount.
func ParseUrgency(s string) Urgency {
	n := urgencyReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	switch n {
	case "high", "critical":
		return UrgencyHigh
	case "medium_high", "mediumhigh":
		return UrgencyMediumHigh
	case "medium":
		return UrgencyMedium
	case "low":
		return UrgencyLow
	}
	return Urgency(n)
}

// UnmarshalText lets JSON and YAML decoders accept any spelling ParseUrgency does.
func (u *Urgency) UnmarshalText(b []byte) error {
	*u = ParseUrgency(string(b))
	return nil
}

// Known reports whether u is one of the four recognised classifications.
func (u Urgency) Known() bool {
	switch u {
	case UrgencyHigh, UrgencyMediumHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// Category is one charitable cause a donation can be allocated to.
// Catalog order is significant: every tie-break uses it.
type Category struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name,omitempty" yaml:"name"`
	Urgency         Urgency `json:"urgency" yaml:"urgency"`
	BaseImpactScore int     `json:"base_impact_score" yaml:"base_impact_score"`
}

// ValidateCatalog checks the catalog is usable as an ordered key set.
func ValidateCatalog(categories []Category) error {
	_, err := indexCatalog(categories)
	return err
}

func indexCatalog(categories []Category) (map[string]int, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories: %w", ErrInvalidCatalog)
	}
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		if c.ID == "" {
			return nil, fmt.Errorf("category at position %d has no id: %w", i, ErrInvalidCatalog)
		}
		if _, dup := index[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q: %w", c.ID, ErrInvalidCatalog)
		}
		index[c.ID] = i
	}
	return index, nil
}
