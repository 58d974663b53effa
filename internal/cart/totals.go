package cart

import (
	"math"

	"github.com/elektromontazh-pro/order-service/internal/catalog"
)

// Totals are the derived counts and estimates shown on the order summary.
type Totals struct {
	Switches    int `json:"switches"`
	Outlets     int `json:"outlets"`
	Points      int `json:"points"`
	CableMeters int `json:"cable_meters"`
	Frames      int `json:"frames"`
}

// metersPerPoint is the flat cable estimate per connection point.
const metersPerPoint = 7

// CalculateTotals derives connection-point counts and material estimates from
// a cart snapshot. Switches count by quantity, outlets by quantity times the
// product's slot count. Service lines contribute nothing.
func CalculateTotals(items []Item) Totals {
	var t Totals
	for _, it := range items {
		p, ok := catalog.ByID(it.ProductID)
		if !ok {
			continue
		}
		switch p.Category {
		case catalog.CategorySwitch:
			t.Switches += it.Quantity
			t.Frames += framesPerUnit(p.Slots) * it.Quantity
		case catalog.CategoryOutlet:
			t.Outlets += it.Quantity * p.Slots
			t.Frames += framesPerUnit(p.Slots) * it.Quantity
		}
	}
	t.Points = t.Switches + t.Outlets
	t.CableMeters = int(math.Ceil(float64(t.Points) * metersPerPoint))
	return t
}

// framesPerUnit is a policy table, not a formula: blocks of 4 and 5 posts are
// closed with two frames, everything smaller with one.
func framesPerUnit(slots int) int {
	if slots >= 4 {
		return 2
	}
	return 1
}
