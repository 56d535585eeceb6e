package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestShippingRateCovers(t *testing.T) {
	five := decimal.NewFromInt(5)
	ten := decimal.NewFromInt(10)
	bounded := ShippingRate{MinDesi: five, MaxDesi: &ten}
	open := ShippingRate{MinDesi: ten}

	cases := []struct {
		rate ShippingRate
		desi string
		want bool
	}{
		{bounded, "4.99", false},
		{bounded, "5", true},
		{bounded, "7.5", true},
		{bounded, "10", true},
		{bounded, "10.01", false},
		{open, "9.99", false},
		{open, "10", true},
		{open, "250", true},
	}
	for _, tc := range cases {
		if got := tc.rate.Covers(decimal.RequireFromString(tc.desi)); got != tc.want {
			t.Errorf("Covers(%s) = %v, want %v", tc.desi, got, tc.want)
		}
	}
}
