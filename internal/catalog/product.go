// Package catalog defines the static product catalogue of the service:
// electrical fittings (switches, outlets) and work items the customer can
// order. The catalogue is compiled in and never mutated at runtime.
package catalog

type Category string

const (
	CategorySwitch  Category = "switch"
	CategoryOutlet  Category = "outlet"
	CategoryService Category = "service"
)

func (c Category) String() string {
	return string(c)
}

// CommissionTier determines the executor's share of an item's price.
type CommissionTier string

const (
	// TierInstallation covers complex wiring work, executor gets 30%.
	TierInstallation CommissionTier = "installation"
	// TierServices covers everything else, executor gets 50%.
	TierServices CommissionTier = "services"
)

// Pricing option identifiers. Every product with two price variants is either
// installed into existing wiring or installed together with new wiring.
const (
	OptionInstallOnly = "install-only"
	OptionWithWiring  = "with-wiring"
)

// AddOptionInstallBlocks marks a cart item whose fittings should be mounted
// into pre-installed back boxes. Items carrying this flag feed the synthetic
// install-aggregate cart line.
const AddOptionInstallBlocks = "install-blocks"

// Product is a catalogue entry. OutletCount is the number of outlets the
// product contributes to the install aggregate when it is mounted into
// blocks; Slots is the number of frame positions the product occupies.
type Product struct {
	ID              string
	Name            string
	Description     string
	Category        Category
	PriceInstall    float64
	PriceWithWiring float64
	OldPrice        float64
	Slots           int
	OutletCount     int
	CommissionTier  CommissionTier
}

// Price returns the unit price for the chosen pricing option.
func (p Product) Price(option string) float64 {
	if option == OptionWithWiring {
		return p.PriceWithWiring
	}
	return p.PriceInstall
}

// Distinguished product identifiers.
const (
	// SiteVisitID is the mandatory companion line appended to every cart.
	SiteVisitID = "vyzov-mastera"
	// InstallAggregateID is the system-generated install line. It is never
	// added by the user directly.
	InstallAggregateID = "electrical-install-total"
)

// InstallAggregate is the definition behind the synthetic cart line. It has a
// single flat price: mounting a fitting into a prepared block costs the same
// with or without wiring.
var InstallAggregate = Product{
	ID:              InstallAggregateID,
	Name:            "Монтаж электроустановочных изделий",
	Description:     "Установка розеток и выключателей в подготовленные подрозетники",
	Category:        CategoryService,
	PriceInstall:    250,
	PriceWithWiring: 250,
	CommissionTier:  TierInstallation,
}

var products = []Product{
	{
		ID:              "vyklyuchatel-1",
		Name:            "Выключатель одноклавишный",
		Category:        CategorySwitch,
		PriceInstall:    350,
		PriceWithWiring: 900,
		Slots:           1,
		OutletCount:     1,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "vyklyuchatel-2",
		Name:            "Выключатель двухклавишный",
		Category:        CategorySwitch,
		PriceInstall:    400,
		PriceWithWiring: 1000,
		Slots:           1,
		OutletCount:     1,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "pereklyuchatel-prohodnoy",
		Name:            "Переключатель проходной",
		Category:        CategorySwitch,
		PriceInstall:    450,
		PriceWithWiring: 1100,
		Slots:           1,
		OutletCount:     1,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "rozetka",
		Name:            "Розетка одинарная",
		Category:        CategoryOutlet,
		PriceInstall:    350,
		PriceWithWiring: 900,
		Slots:           1,
		OutletCount:     1,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "rozetka-vlagozashchita",
		Name:            "Розетка влагозащищённая",
		Category:        CategoryOutlet,
		PriceInstall:    450,
		PriceWithWiring: 1050,
		Slots:           1,
		OutletCount:     1,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "rozetka-blok-2",
		Name:            "Блок из 2 розеток",
		Category:        CategoryOutlet,
		PriceInstall:    650,
		PriceWithWiring: 1600,
		OldPrice:        1800,
		Slots:           2,
		OutletCount:     2,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "rozetka-blok-3",
		Name:            "Блок из 3 розеток",
		Category:        CategoryOutlet,
		PriceInstall:    950,
		PriceWithWiring: 2300,
		Slots:           3,
		OutletCount:     3,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "rozetka-blok-4",
		Name:            "Блок из 4 розеток",
		Category:        CategoryOutlet,
		PriceInstall:    1250,
		PriceWithWiring: 3000,
		Slots:           4,
		OutletCount:     4,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "rozetka-blok-5",
		Name:            "Блок из 5 розеток",
		Category:        CategoryOutlet,
		PriceInstall:    1550,
		PriceWithWiring: 3500,
		OldPrice:        3900,
		Slots:           5,
		OutletCount:     5,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "rozetka-tv",
		Name:            "Розетка ТВ",
		Category:        CategoryOutlet,
		PriceInstall:    400,
		PriceWithWiring: 950,
		Slots:           1,
		OutletCount:     1,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              SiteVisitID,
		Name:            "Выезд мастера",
		Description:     "Выезд и осмотр объекта, обязателен для каждого заказа",
		Category:        CategoryService,
		PriceInstall:    500,
		PriceWithWiring: 500,
		CommissionTier:  TierServices,
	},
	{
		ID:              "ustanovka-svetilnika",
		Name:            "Установить светильник",
		Category:        CategoryService,
		PriceInstall:    1500,
		PriceWithWiring: 1500,
		CommissionTier:  TierServices,
	},
	{
		ID:              "ustanovka-lyustry",
		Name:            "Установка люстры",
		Category:        CategoryService,
		PriceInstall:    2500,
		PriceWithWiring: 2500,
		CommissionTier:  TierServices,
	},
	{
		ID:              "shtroblenie-sten",
		Name:            "Штробление стен под кабель (за метр)",
		Category:        CategoryService,
		PriceInstall:    350,
		PriceWithWiring: 350,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "montazh-elektroprovodki",
		Name:            "Монтаж электропроводки (за точку)",
		Category:        CategoryService,
		PriceInstall:    1200,
		PriceWithWiring: 1200,
		CommissionTier:  TierInstallation,
	},
	{
		ID:              "sborka-elektroshchita",
		Name:            "Сборка электрощита",
		Category:        CategoryService,
		PriceInstall:    5000,
		PriceWithWiring: 5000,
		CommissionTier:  TierInstallation,
	},
	InstallAggregate,
}

var byID = func() map[string]Product {
	m := make(map[string]Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}()

// All returns the full catalogue in definition order.
func All() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// ByID looks up a product by its identifier.
func ByID(id string) (Product, bool) {
	p, ok := byID[id]
	return p, ok
}

// SiteVisit returns the mandatory companion product.
func SiteVisit() Product {
	return byID[SiteVisitID]
}
