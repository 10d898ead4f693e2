package allocation

import (
	"cmp"
	"fmt"
	"slices"
)

// Share is the part of a donation going to one category.
type Share struct {
	CategoryID  string `json:"category_id"`
	Percent     int    `json:"percent"`
	AmountMinor int64  `json:"amount_minor"`
}

// Split divides amountMinor (in the currency's smallest unit) across the
// categories according to a. Each category first receives the floor of its
// exact share; leftover units are handed out one at a time by largest
// remainder, catalog order breaking ties. The shares always add up to
// amountMinor.
func Split(a Allocation, categories []Category, amountMinor int64) ([]Share, error) {
	if amountMinor < 0 {
		return nil, fmt.Errorf("%d: %w", amountMinor, ErrInvalidAmount)
	}
	if err := a.Validate(categories); err != nil {
		return nil, err
	}

	// amount*pct would overflow int64 for large amounts, so the whole
	// hundreds and the sub-hundred rest are scaled separately.
	whole, rest := amountMinor/Total, amountMinor%Total

	shares := make([]Share, len(categories))
	remainders := make([]int64, len(categories))
	var allocated int64
	for i, c := range categories {
		pct := int64(a[c.ID])
		shares[i] = Share{
			CategoryID:  c.ID,
			Percent:     a[c.ID],
			AmountMinor: whole*pct + rest*pct/Total,
		}
		remainders[i] = rest * pct % Total
		allocated += shares[i].AmountMinor
	}

	leftover := amountMinor - allocated
	if leftover == 0 {
		return shares, nil
	}

	order := make([]int, len(categories))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		return cmp.Compare(remainders[y], remainders[x])
	})
	for _, i := range order[:leftover] {
		shares[i].AmountMinor++
	}

	return shares, nil
}
