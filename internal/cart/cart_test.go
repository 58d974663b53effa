package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektromontazh-pro/order-service/internal/cart"
	"github.com/elektromontazh-pro/order-service/internal/catalog"
)

func mustProduct(t *testing.T, id string) catalog.Product {
	t.Helper()
	p, ok := catalog.ByID(id)
	require.True(t, ok, "catalog must contain %s", id)
	return p
}

func findItem(items []cart.Item, productID string) *cart.Item {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}

func TestAdd_AppendsCompanion(t *testing.T) {
	p := mustProduct(t, "rozetka")

	items := cart.Add(nil, p, 1, catalog.OptionInstallOnly, nil)

	assert.Len(t, items, 2)
	assert.NotNil(t, findItem(items, "rozetka"))
	companion := findItem(items, catalog.SiteVisitID)
	require.NotNil(t, companion, "site visit must be auto-appended")
	assert.Equal(t, 1, companion.Quantity)

	// A second add must not duplicate the companion.
	items = cart.Add(items, mustProduct(t, "vyklyuchatel-1"), 1, catalog.OptionInstallOnly, nil)
	assert.Len(t, items, 3)
}

func TestAdd_CompanionItselfGetsNoCompanion(t *testing.T) {
	items := cart.Add(nil, catalog.SiteVisit(), 1, catalog.OptionInstallOnly, nil)
	assert.Len(t, items, 1)
}

func TestAdd_MergesQuantityAndKeepsAddOptions(t *testing.T) {
	p := mustProduct(t, "rozetka-blok-2")

	items := cart.Add(nil, p, 1, catalog.OptionInstallOnly, []string{catalog.AddOptionInstallBlocks})
	items = cart.Add(items, p, 2, catalog.OptionInstallOnly, nil)

	it := findItem(items, p.ID)
	require.NotNil(t, it)
	assert.Equal(t, 3, it.Quantity)
	assert.Contains(t, it.AddOptions, catalog.AddOptionInstallBlocks, "add-options must survive an add without explicit options")

	// Explicitly supplied options replace the old set.
	items = cart.Add(items, p, 1, catalog.OptionInstallOnly, []string{"some-other-option"})
	it = findItem(items, p.ID)
	require.NotNil(t, it)
	assert.Equal(t, []string{"some-other-option"}, it.AddOptions)
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	p := mustProduct(t, "rozetka")
	original := cart.Add(nil, p, 1, catalog.OptionInstallOnly, nil)
	snapshot := make([]cart.Item, len(original))
	copy(snapshot, original)

	_ = cart.Add(original, p, 5, catalog.OptionInstallOnly, nil)

	assert.Equal(t, snapshot, original)
}

func TestRemove_IsIdempotent(t *testing.T) {
	items := cart.Add(nil, mustProduct(t, "rozetka"), 1, catalog.OptionInstallOnly, nil)

	once := cart.Remove(items, "rozetka")
	twice := cart.Remove(once, "rozetka")

	assert.Equal(t, once, twice)
	assert.Nil(t, findItem(once, "rozetka"))
}

func TestRemove_UnknownIDIsNoOp(t *testing.T) {
	items := cart.Add(nil, mustProduct(t, "rozetka"), 2, catalog.OptionInstallOnly, nil)
	result := cart.Remove(items, "no-such-product")
	assert.Equal(t, items, result)
}

func TestUpdateQuantity(t *testing.T) {
	items := cart.Add(nil, mustProduct(t, "rozetka"), 1, catalog.OptionInstallOnly, nil)

	items = cart.UpdateQuantity(items, "rozetka", 7)
	it := findItem(items, "rozetka")
	require.NotNil(t, it)
	assert.Equal(t, 7, it.Quantity)

	unchanged := cart.UpdateQuantity(items, "no-such-product", 3)
	assert.Equal(t, items, unchanged)
}

func TestUpdateOption(t *testing.T) {
	items := cart.Add(nil, mustProduct(t, "rozetka"), 1, catalog.OptionInstallOnly, nil)

	items = cart.UpdateOption(items, "rozetka", catalog.OptionWithWiring)

	it := findItem(items, "rozetka")
	require.NotNil(t, it)
	assert.Equal(t, catalog.OptionWithWiring, it.Option)
	assert.Equal(t, it.PriceWithWiring, it.Price())
}

func TestToggleAddOption_FlipsMembership(t *testing.T) {
	items := cart.Add(nil, mustProduct(t, "rozetka"), 1, catalog.OptionInstallOnly, nil)

	items = cart.ToggleAddOption(items, "rozetka", catalog.AddOptionInstallBlocks)
	it := findItem(items, "rozetka")
	require.NotNil(t, it)
	assert.Contains(t, it.AddOptions, catalog.AddOptionInstallBlocks)

	items = cart.ToggleAddOption(items, "rozetka", catalog.AddOptionInstallBlocks)
	it = findItem(items, "rozetka")
	require.NotNil(t, it)
	assert.NotContains(t, it.AddOptions, catalog.AddOptionInstallBlocks)
}

func TestInstallAggregate_QuantityEqualsOutletSum(t *testing.T) {
	// Two 5-outlet blocks and one single outlet, all flagged for mounting
	// into prepared back boxes: 2×5 + 1×1 = 11.
	items := cart.Add(nil, mustProduct(t, "rozetka-blok-5"), 2, catalog.OptionInstallOnly, []string{catalog.AddOptionInstallBlocks})
	items = cart.Add(items, mustProduct(t, "rozetka"), 1, catalog.OptionInstallOnly, []string{catalog.AddOptionInstallBlocks})

	agg := findItem(items, catalog.InstallAggregateID)
	require.NotNil(t, agg, "aggregate line must exist when flagged outlets are present")
	assert.Equal(t, 11, agg.Quantity)
	assert.True(t, agg.Synthetic)
	assert.Equal(t, agg.PriceInstall, agg.PriceWithWiring, "aggregate line has a flat price")
}

func TestInstallAggregate_RemovedWhenSumIsZero(t *testing.T) {
	items := cart.Add(nil, mustProduct(t, "rozetka-blok-3"), 1, catalog.OptionInstallOnly, []string{catalog.AddOptionInstallBlocks})
	require.NotNil(t, findItem(items, catalog.InstallAggregateID))

	items = cart.ToggleAddOption(items, "rozetka-blok-3", catalog.AddOptionInstallBlocks)
	assert.Nil(t, findItem(items, catalog.InstallAggregateID), "aggregate line must disappear when no item is flagged")
}

func TestInstallAggregate_FollowsQuantityChanges(t *testing.T) {
	items := cart.Add(nil, mustProduct(t, "rozetka-blok-4"), 1, catalog.OptionInstallOnly, []string{catalog.AddOptionInstallBlocks})

	items = cart.UpdateQuantity(items, "rozetka-blok-4", 3)

	agg := findItem(items, catalog.InstallAggregateID)
	require.NotNil(t, agg)
	assert.Equal(t, 12, agg.Quantity)

	items = cart.Remove(items, "rozetka-blok-4")
	assert.Nil(t, findItem(items, catalog.InstallAggregateID))
}

func TestInstallAggregate_DoesNotCountItself(t *testing.T) {
	items := cart.Add(nil, mustProduct(t, "rozetka-blok-2"), 1, catalog.OptionInstallOnly, []string{catalog.AddOptionInstallBlocks})

	// Re-deriving twice must be stable: the aggregate never feeds itself.
	items = cart.UpdateQuantity(items, "rozetka-blok-2", 1)
	items = cart.UpdateQuantity(items, "rozetka-blok-2", 1)

	agg := findItem(items, catalog.InstallAggregateID)
	require.NotNil(t, agg)
	assert.Equal(t, 2, agg.Quantity)
}

func TestInstallAggregate_LegacyFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		item      cart.Item
		wantCount int
	}{
		{
			name: "id_suffix",
			item: cart.Item{
				ProductID:  "custom-blok-4",
				Name:       "Нестандартный блок",
				Quantity:   1,
				AddOptions: []string{catalog.AddOptionInstallBlocks},
			},
			wantCount: 4,
		},
		{
			name: "name_pattern",
			item: cart.Item{
				ProductID:  "legacy-item",
				Name:       "Старый блок из 3 розеток",
				Quantity:   1,
				AddOptions: []string{catalog.AddOptionInstallBlocks},
			},
			wantCount: 3,
		},
		{
			name: "default_one",
			item: cart.Item{
				ProductID:  "mystery-item",
				Name:       "Что-то неизвестное",
				Quantity:   1,
				AddOptions: []string{catalog.AddOptionInstallBlocks},
			},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := cart.UpdateQuantity([]cart.Item{tt.item}, tt.item.ProductID, tt.item.Quantity)
			agg := findItem(items, catalog.InstallAggregateID)
			require.NotNil(t, agg)
			assert.Equal(t, tt.wantCount, agg.Quantity)
		})
	}
}

func TestSubtotal(t *testing.T) {
	items := []cart.Item{
		{ProductID: "a", PriceInstall: 100, Quantity: 2, Option: catalog.OptionInstallOnly},
		{ProductID: "b", PriceInstall: 50, PriceWithWiring: 300, Quantity: 1, Option: catalog.OptionWithWiring},
	}
	assert.Equal(t, 500.0, cart.Subtotal(items))
}
