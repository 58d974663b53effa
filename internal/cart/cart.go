// Package cart implements the in-memory cart engine: pure operations over a
// slice of items plus the derived install-aggregate line. Every operation
// returns a new slice and never mutates its input, so repeated calls with the
// same arguments are idempotent.
package cart

import (
	"slices"

	"github.com/elektromontazh-pro/order-service/internal/catalog"
)

// Item is one cart line: a priced snapshot of a product plus the user's
// selections. Prices are copied from the catalogue at add time so a stored
// cart survives catalogue edits. Synthetic marks the system-generated install
// aggregate line.
type Item struct {
	ProductID       string   `json:"product_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category"`
	PriceInstall    float64  `json:"price_install"`
	PriceWithWiring float64  `json:"price_with_wiring"`
	Quantity        int      `json:"quantity"`
	Option          string   `json:"option"`
	AddOptions      []string `json:"add_options,omitempty"`
	Synthetic       bool     `json:"synthetic,omitempty"`
}

// Price returns the item's unit price for its selected option.
func (it Item) Price() float64 {
	if it.Option == catalog.OptionWithWiring {
		return it.PriceWithWiring
	}
	return it.PriceInstall
}

func (it Item) hasAddOption(id string) bool {
	return slices.Contains(it.AddOptions, id)
}

func clone(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		out[i].AddOptions = slices.Clone(it.AddOptions)
	}
	return out
}

func indexOf(items []Item, productID string) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ProductID == productID })
}

func newItem(p catalog.Product, quantity int, option string, addOptions []string) Item {
	return Item{
		ProductID:       p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category.String(),
		PriceInstall:    p.PriceInstall,
		PriceWithWiring: p.PriceWithWiring,
		Quantity:        quantity,
		Option:          option,
		AddOptions:      slices.Clone(addOptions),
	}
}

// Add puts quantity units of product into the cart. If the product is already
// present its quantity grows and its add-options are replaced only when new
// ones were explicitly supplied. Unless the product itself is the site-visit
// companion, one unit of the companion is appended when missing.
func Add(items []Item, p catalog.Product, quantity int, option string, addOptions []string) []Item {
	out := clone(items)

	if i := indexOf(out, p.ID); i >= 0 {
		out[i].Quantity += quantity
		if len(addOptions) > 0 {
			out[i].AddOptions = slices.Clone(addOptions)
		}
	} else {
		out = append(out, newItem(p, quantity, option, addOptions))
	}

	if p.ID != catalog.SiteVisitID && indexOf(out, catalog.SiteVisitID) < 0 {
		out = append(out, newItem(catalog.SiteVisit(), 1, catalog.OptionInstallOnly, nil))
	}

	return syncInstallAggregate(out)
}

// Remove drops the matching item. Removing an unknown id is a no-op.
func Remove(items []Item, productID string) []Item {
	out := clone(items)
	if i := indexOf(out, productID); i >= 0 {
		out = slices.Delete(out, i, i+1)
	}
	return syncInstallAggregate(out)
}

// UpdateQuantity sets the quantity of the matching item. The engine does not
// clamp: callers keep quantities at 1 or above. Unknown id is a no-op.
func UpdateQuantity(items []Item, productID string, quantity int) []Item {
	out := clone(items)
	if i := indexOf(out, productID); i >= 0 {
		out[i].Quantity = quantity
	}
	return syncInstallAggregate(out)
}

// UpdateOption replaces the pricing option of the matching item.
func UpdateOption(items []Item, productID, option string) []Item {
	out := clone(items)
	if i := indexOf(out, productID); i >= 0 {
		out[i].Option = option
	}
	return out
}

// ToggleAddOption flips membership of optionID in the item's add-options.
// Toggling the install-blocks flag re-derives the install aggregate.
func ToggleAddOption(items []Item, productID, optionID string) []Item {
	out := clone(items)
	i := indexOf(out, productID)
	if i < 0 {
		return out
	}

	if j := slices.Index(out[i].AddOptions, optionID); j >= 0 {
		out[i].AddOptions = slices.Delete(out[i].AddOptions, j, j+1)
	} else {
		out[i].AddOptions = append(out[i].AddOptions, optionID)
	}

	if optionID == catalog.AddOptionInstallBlocks {
		out = syncInstallAggregate(out)
	}
	return out
}

// Subtotal sums price×quantity over the whole cart.
func Subtotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price() * float64(it.Quantity)
	}
	return total
}

// syncInstallAggregate re-derives the synthetic install line: the number of
// outlets across all items flagged for mounting into prepared blocks. The
// line exists iff that number is positive and its quantity always equals it.
// The aggregate line itself never contributes to the count.
func syncInstallAggregate(items []Item) []Item {
	total := 0
	for _, it := range items {
		if it.Synthetic || it.ProductID == catalog.InstallAggregateID {
			continue
		}
		if !it.hasAddOption(catalog.AddOptionInstallBlocks) {
			continue
		}
		total += outletCount(it) * it.Quantity
	}

	i := indexOf(items, catalog.InstallAggregateID)
	switch {
	case total == 0 && i >= 0:
		items = slices.Delete(items, i, i+1)
	case total > 0 && i >= 0:
		items[i].Quantity = total
	case total > 0:
		agg := newItem(catalog.InstallAggregate, total, catalog.OptionInstallOnly, nil)
		agg.Synthetic = true
		items = append(items, agg)
	}
	return items
}
