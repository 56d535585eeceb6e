package domain

import "github.com/shopspring/decimal"

// ShippingRate is one tier of the shipping price table. MinDesi and
// MaxDesi are both inclusive; a nil MaxDesi marks the unbounded top
// tier. A nil FreeThreshold means the tier is never waived.
type ShippingRate struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	MinDesi       decimal.Decimal  `json:"minDesi"`
	MaxDesi       *decimal.Decimal `json:"maxDesi,omitempty"`
	Cost          decimal.Decimal  `json:"cost"`
	FreeThreshold *decimal.Decimal `json:"freeThreshold,omitempty"`
	SortOrder     int              `json:"sortOrder"`
	Active        bool             `json:"active"`
	IsDefault     bool             `json:"isDefault"`
}

// Covers reports whether totalDesi falls inside this tier's range.
func (r ShippingRate) Covers(totalDesi decimal.Decimal) bool {
	if totalDesi.LessThan(r.MinDesi) {
		return false
	}
	if r.MaxDesi != nil && totalDesi.GreaterThan(*r.MaxDesi) {
		return false
	}
	return true
}
