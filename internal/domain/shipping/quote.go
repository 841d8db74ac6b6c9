package shipping

import (
	"cmp"
	"slices"
)

// Quote is one courier's offer for a destination and cart. Charges are in
// minor units.
type Quote struct {
	CourierID        int
	CourierName      string
	Carrier          string
	FreightCharge    int64
	CODCharge        int64
	OtherCharges     int64
	Total            int64
	EstimatedTransit string
	EstimatedDays    int
	IsSurface        bool
	IsAir            bool
	Rating           float64
}

// ChargeSum is the total implied by the individual charges.
func (q Quote) ChargeSum() int64 {
	return q.FreightCharge + q.CODCharge + q.OtherCharges
}

// compareQuotes orders by total, then surface before air, then courier id.
// Carrier and courier name break any remaining tie so the order is total.
func compareQuotes(a, b Quote) int {
	if c := cmp.Compare(a.Total, b.Total); c != 0 {
		return c
	}
	if a.IsSurface != b.IsSurface {
		if a.IsSurface {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.CourierID, b.CourierID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Carrier, b.Carrier); c != 0 {
		return c
	}
	return cmp.Compare(a.CourierName, b.CourierName)
}

// Cheapest returns the preferred quote under compareQuotes.
func Cheapest(quotes []Quote) (Quote, bool) {
	if len(quotes) == 0 {
		return Quote{}, false
	}
	return slices.MinFunc(quotes, compareQuotes), true
}

// SortQuotes sorts in place, cheapest first.
func SortQuotes(quotes []Quote) {
	slices.SortStableFunc(quotes, compareQuotes)
}
