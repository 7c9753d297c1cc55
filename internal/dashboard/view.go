package dashboard

import (
	"strconv"
	"time"

	"supplychain/pkg/contracts/domain"
)

const (
	Title       = "Supply Chain Dashboard"
	Description = "This dashboard helps monitor supplier performance, lead time, cost, and delivery trends."
)

// Tile is one formatted KPI.
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Charts holds the data behind the four charts, in display order.
type Charts struct {
	LeadTime    []LeadTimePoint       `json:"lead_time"`
	Performance []SupplierPerformance `json:"performance"`
	Shipping    []ShippingCost        `json:"shipping"`
	Scatter     []ScatterSeries       `json:"scatter"`
}

// View is everything one render of the dashboard needs.
type View struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loaded_at"`
	Options     Options   `json:"options"`
	Filter      Filter    `json:"filter"`
	TotalRows   int       `json:"total_rows"`
	Rows        int       `json:"rows"`
	KPIs        KPIs      `json:"kpis"`
	Tiles       []Tile    `json:"tiles"`
	Charts      Charts    `json:"charts"`

	// Orders is the filtered subset, kept for exports.
	Orders []domain.Order `json:"-"`
}

// Build runs the whole pipeline for one selection over one snapshot.
func Build(ds *domain.Dataset, sel Selection) View {
	all := ds.Orders()
	opts := optionsFor(all)
	f := sel.Resolve(opts)
	subset := Apply(all, f)
	kpis := ComputeKPIs(subset)

	v := View{
		Title:       Title,
		Description: Description,
		Options:     opts,
		Filter:      f,
		TotalRows:   len(all),
		Rows:        len(subset),
		KPIs:        kpis,
		Tiles:       Tiles(kpis),
		Charts: Charts{
			LeadTime:    LeadTimeByDate(subset),
			Performance: PerformanceBySupplier(subset),
			Shipping:    CostByShippingMethod(subset),
			Scatter:     QuantityVsCost(subset),
		},
		Orders: subset,
	}
	if ds != nil {
		v.Source = ds.Source()
		v.LoadedAt = ds.LoadedAt()
	}
	return v
}

// Tiles formats the KPIs in display order.
func Tiles(k KPIs) []Tile {
	return []Tile{
		{Label: "Total Orders", Value: strconv.Itoa(k.TotalOrders)},
		{Label: "Avg Lead Time (Days)", Value: FormatDecimal(k.AvgLeadTime)},
		{Label: "Avg Delivery Performance", Value: FormatPercent(k.AvgDeliveryPerformance)},
		{Label: "Total Cost ($)", Value: FormatMoney(k.TotalCost)},
	}
}
