// Package earnings computes executor payouts. Line items split into two
// commission tiers: complex wiring work pays the executor 30% of the item
// price, everything else 50%.
package earnings

import (
	"strings"
	"time"

	"github.com/elektromontazh-pro/order-service/internal/order"
)

// Commission rates by tier.
const (
	InstallationRate = 0.30
	ServicesRate     = 0.50
)

type Tier string

const (
	TierInstallation Tier = "installation"
	TierServices     Tier = "services"
)

// installationFragments classifies persisted order lines by name. Orders
// store flattened item copies with no link back to the catalogue, so the name
// is all there is to match on. Renamed catalogue products must be reflected
// here or they fall back to the services tier.
var installationFragments = []string{
	"розетк",
	"выключател",
	"переключател",
	"блок из",
	"электропроводк",
	"проводк",
	"кабел",
	"штроб",
	"электрощит",
	"щиток",
	"автомат",
	"узо",
	"подрозетн",
	"гофр",
	"перенос точк",
}

// ClassifyItem assigns an order line to a commission tier by case-insensitive
// substring match. No match means the services tier.
func ClassifyItem(name string) Tier {
	lower := strings.ToLower(name)
	for _, fragment := range installationFragments {
		if strings.Contains(lower, fragment) {
			return TierInstallation
		}
	}
	return TierServices
}

// OrderEarnings is the per-order payout breakdown.
type OrderEarnings struct {
	InstallationAmount   float64 `json:"installation_amount"`
	InstallationEarnings float64 `json:"installation_earnings"`
	ServicesAmount       float64 `json:"services_amount"`
	ServicesEarnings     float64 `json:"services_earnings"`
	TotalAmount          float64 `json:"total_amount"`
	TotalEarnings        float64 `json:"total_earnings"`
}

// ForOrder computes the executor payout for a single order from its item
// list. Always recomputed, never stored.
func ForOrder(o *order.Order) OrderEarnings {
	var e OrderEarnings
	for _, item := range o.Items {
		amount := item.Price * float64(item.Quantity)
		switch ClassifyItem(item.Name) {
		case TierInstallation:
			e.InstallationAmount += amount
		default:
			e.ServicesAmount += amount
		}
	}
	e.InstallationEarnings = e.InstallationAmount * InstallationRate
	e.ServicesEarnings = e.ServicesAmount * ServicesRate
	e.TotalAmount = e.InstallationAmount + e.ServicesAmount
	e.TotalEarnings = e.InstallationEarnings + e.ServicesEarnings
	return e
}

// Report aggregates an executor's earnings over a set of orders. Completed
// orders count as realized; confirmed and in-progress orders count as
// expected; pending orders count as neither.
type Report struct {
	ExecutorID        string        `json:"executor_id"`
	RealizedEarnings  float64       `json:"realized_earnings"`
	RealizedBreakdown OrderEarnings `json:"realized_breakdown"`
	ExpectedEarnings  float64       `json:"expected_earnings"`
	ExpectedBreakdown OrderEarnings `json:"expected_breakdown"`
	CompletedOrders   int           `json:"completed_orders"`
	PendingOrders     int           `json:"pending_orders"`
}

func addBreakdown(dst *OrderEarnings, e OrderEarnings) {
	dst.InstallationAmount += e.InstallationAmount
	dst.InstallationEarnings += e.InstallationEarnings
	dst.ServicesAmount += e.ServicesAmount
	dst.ServicesEarnings += e.ServicesEarnings
	dst.TotalAmount += e.TotalAmount
	dst.TotalEarnings += e.TotalEarnings
}

// ForExecutor filters orders by assigned executor and an optional inclusive
// creation-time window (zero bounds are open) and aggregates earnings.
func ForExecutor(orders []order.Order, executorID string, from, to time.Time) Report {
	report := Report{ExecutorID: executorID}

	for i := range orders {
		o := &orders[i]
		if o.ExecutorID != executorID {
			continue
		}
		if !from.IsZero() && o.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && o.CreatedAt.After(to) {
			continue
		}

		switch o.Status {
		case order.StatusCompleted:
			e := ForOrder(o)
			report.RealizedEarnings += e.TotalEarnings
			addBreakdown(&report.RealizedBreakdown, e)
			report.CompletedOrders++
		case order.StatusConfirmed, order.StatusInProgress:
			e := ForOrder(o)
			report.ExpectedEarnings += e.TotalEarnings
			addBreakdown(&report.ExpectedBreakdown, e)
			report.PendingOrders++
		}
	}
	return report
}
