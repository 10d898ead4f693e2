package allocation

import "errors"

var (
	// ErrInvalidCatalog is returned when the category list cannot produce an
	// allocation: it is empty, has duplicate or blank ids, or weighs nothing.
	ErrInvalidCatalog = errors.New("invalid category catalog")

	// ErrUnknownCategory is returned when an id does not match any catalog entry.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidAllocation is returned when an allocation handed back by a caller
	// does not satisfy the sum-100 invariant over the catalog.
	ErrInvalidAllocation = errors.New("invalid allocation")

	ErrInvalidPercent = errors.New("percent out of range [0,100]")
	ErrInvalidAmount  = errors.New("donation amount must not be negative")
)
