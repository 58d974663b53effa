package earnings_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elektromontazh-pro/order-service/internal/earnings"
	"github.com/elektromontazh-pro/order-service/internal/order"
)

func TestClassifyItem(t *testing.T) {
	tests := []struct {
		name string
		want earnings.Tier
	}{
		{"Блок из 5 розеток", earnings.TierInstallation},
		{"Розетка одинарная", earnings.TierInstallation},
		{"Монтаж электропроводки (за точку)", earnings.TierInstallation},
		{"Штробление стен под кабель (за метр)", earnings.TierInstallation},
		{"ВЫКЛЮЧАТЕЛЬ ОДНОКЛАВИШНЫЙ", earnings.TierInstallation},
		{"Установить светильник", earnings.TierServices},
		{"Установка люстры", earnings.TierServices},
		{"Выезд мастера", earnings.TierServices},
		{"", earnings.TierServices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, earnings.ClassifyItem(tt.name))
		})
	}
}

func TestForOrder(t *testing.T) {
	// The canonical split: a 3500₽ outlet block pays 30%, a 1500₽ fixture
	// install pays 50%.
	o := &order.Order{
		Items: []order.Item{
			{Name: "Блок из 5 розеток", Price: 3500, Quantity: 1},
			{Name: "Установить светильник", Price: 1500, Quantity: 1},
		},
	}

	e := earnings.ForOrder(o)

	assert.Equal(t, 3500.0, e.InstallationAmount)
	assert.Equal(t, 1050.0, e.InstallationEarnings)
	assert.Equal(t, 1500.0, e.ServicesAmount)
	assert.Equal(t, 750.0, e.ServicesEarnings)
	assert.Equal(t, 5000.0, e.TotalAmount)
	assert.Equal(t, 1800.0, e.TotalEarnings)
}

func TestForOrder_QuantityMultiplies(t *testing.T) {
	o := &order.Order{
		Items: []order.Item{
			{Name: "Розетка одинарная", Price: 350, Quantity: 4},
		},
	}

	e := earnings.ForOrder(o)

	assert.Equal(t, 1400.0, e.InstallationAmount)
	assert.InDelta(t, 420.0, e.InstallationEarnings, 0.001)
}

func executorOrders() []order.Order {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	item := order.Item{Name: "Установить светильник", Price: 1000, Quantity: 1}

	return []order.Order{
		{ID: "ORD-1", ExecutorID: "exec-1", Status: order.StatusCompleted, CreatedAt: base, Items: []order.Item{item}},
		{ID: "ORD-2", ExecutorID: "exec-1", Status: order.StatusInProgress, CreatedAt: base.AddDate(0, 0, 5), Items: []order.Item{item}},
		{ID: "ORD-3", ExecutorID: "exec-1", Status: order.StatusConfirmed, CreatedAt: base.AddDate(0, 0, 10), Items: []order.Item{item}},
		{ID: "ORD-4", ExecutorID: "exec-1", Status: order.StatusPending, CreatedAt: base.AddDate(0, 0, 12), Items: []order.Item{item}},
		{ID: "ORD-5", ExecutorID: "exec-2", Status: order.StatusCompleted, CreatedAt: base, Items: []order.Item{item}},
		{ID: "ORD-6", ExecutorID: "exec-1", Status: order.StatusCompleted, CreatedAt: base.AddDate(0, 2, 0), Items: []order.Item{item}},
	}
}

func TestForExecutor(t *testing.T) {
	report := earnings.ForExecutor(executorOrders(), "exec-1", time.Time{}, time.Time{})

	// Each fixture install earns 500: two completed orders realized, one
	// in-progress plus one confirmed expected, pending ignored.
	assert.Equal(t, "exec-1", report.ExecutorID)
	assert.Equal(t, 1000.0, report.RealizedEarnings)
	assert.Equal(t, 2, report.CompletedOrders)
	assert.Equal(t, 1000.0, report.ExpectedEarnings)
	assert.Equal(t, 2, report.PendingOrders)
	assert.Equal(t, 2000.0, report.RealizedBreakdown.TotalAmount)
	assert.Equal(t, 1000.0, report.RealizedBreakdown.ServicesEarnings)
	assert.Zero(t, report.RealizedBreakdown.InstallationEarnings)
}

func TestForExecutor_TimeWindow(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	report := earnings.ForExecutor(executorOrders(), "exec-1", from, to)

	// ORD-6 falls outside the window, so only one completed order remains.
	assert.Equal(t, 500.0, report.RealizedEarnings)
	assert.Equal(t, 1, report.CompletedOrders)
}

func TestForExecutor_OtherExecutorExcluded(t *testing.T) {
	report := earnings.ForExecutor(executorOrders(), "exec-2", time.Time{}, time.Time{})

	assert.Equal(t, 500.0, report.RealizedEarnings)
	assert.Equal(t, 1, report.CompletedOrders)
	assert.Zero(t, report.ExpectedEarnings)
}

func TestForExecutor_NoOrders(t *testing.T) {
	report := earnings.ForExecutor(nil, "exec-9", time.Time{}, time.Time{})

	assert.Zero(t, report.RealizedEarnings)
	assert.Zero(t, report.ExpectedEarnings)
	assert.Zero(t, report.CompletedOrders)
}
