package cart

import (
	"strings"

	"github.com/elektromontazh-pro/order-service/internal/catalog"
)

// Legacy lookup tables for carts whose product ids no longer resolve against
// the catalogue (stored carts outlive catalogue edits). New block products
// must either exist in the catalogue with an explicit OutletCount or be added
// here, otherwise their contribution silently defaults to 1.
var blockSuffixCounts = map[string]int{
	"-2": 2,
	"-3": 3,
	"-4": 4,
	"-5": 5,
}

var blockNameCounts = []struct {
	fragment string
	count    int
}{
	{"из 2 розеток", 2},
	{"из 3 розеток", 3},
	{"из 4 розеток", 4},
	{"из 5 розеток", 5},
	{"двойная розетка", 2},
	{"тройная розетка", 3},
}

// outletCount resolves how many outlets one unit of the item contributes to
// the install aggregate. Catalogue tag first, then the legacy id-suffix and
// name-pattern tables, then 1.
func outletCount(it Item) int {
	if p, ok := catalog.ByID(it.ProductID); ok && p.OutletCount > 0 {
		return p.OutletCount
	}
	for suffix, n := range blockSuffixCounts {
		if strings.HasSuffix(it.ProductID, suffix) {
			return n
		}
	}
	name := strings.ToLower(it.Name)
	for _, bc := range blockNameCounts {
		if strings.Contains(name, bc.fragment) {
			return bc.count
		}
	}
	return 1
}
