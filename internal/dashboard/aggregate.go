package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"supplychain/pkg/contracts/domain"
)

// KPIs are the four headline figures of the filtered orders.
type KPIs struct {
	TotalOrders            int             `json:"total_orders"`
	AvgLeadTime            Number          `json:"avg_lead_time"`
	AvgDeliveryPerformance Number          `json:"avg_delivery_performance"`
	TotalCost              decimal.Decimal `json:"total_cost"`
}

// ComputeKPIs aggregates the already filtered orders. Missing values are
// skipped. Means are rounded to two places and are NaN when no row contributes.
func ComputeKPIs(orders []domain.Order) KPIs {
	ids := make(map[string]struct{}, len(orders))
	var lead, perf mean
	total := decimal.Zero

	for _, o := range orders {
		if o.OrderID != "" {
			ids[o.OrderID] = struct{}{}
		}
		if o.HasLeadTime {
			lead.add(o.LeadTimeDays)
		}
		if o.HasPerformance {
			perf.add(o.DeliveryPerformancePercent)
		}
		if o.HasCost {
			total = total.Add(o.Cost)
		}
	}

	return KPIs{
		TotalOrders:            len(ids),
		AvgLeadTime:            Number(round2(lead.value())),
		AvgDeliveryPerformance: Number(round2(perf.value())),
		TotalCost:              total,
	}
}

// LeadTimePoint is the mean lead time of all orders placed on one day.
type LeadTimePoint struct {
	Date         string    `json:"date"`
	Day          time.Time `json:"-"`
	MeanLeadTime Number    `json:"mean_lead_time"`
}

// LeadTimeByDate groups by order date, ascending. Days whose orders carry no
// lead time keep a NaN mean.
func LeadTimeByDate(orders []domain.Order) []LeadTimePoint {
	groups := make(map[time.Time]*mean)
	for _, o := range orders {
		d := day(o.OrderDate)
		m, ok := groups[d]
		if !ok {
			m = &mean{}
			groups[d] = m
		}
		if o.HasLeadTime {
			m.add(o.LeadTimeDays)
		}
	}

	points := make([]LeadTimePoint, 0, len(groups))
	for d, m := range groups {
		points = append(points, LeadTimePoint{
			Date:         d.Format("2006-01-02"),
			Day:          d,
			MeanLeadTime: Number(m.value()),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day.Before(points[j].Day) })
	return points
}

// SupplierPerformance is the mean delivery performance of one supplier.
type SupplierPerformance struct {
	Supplier        string `json:"supplier"`
	MeanPerformance Number `json:"mean_performance"`
}

// PerformanceBySupplier ranks suppliers by mean performance, best first.
// Ties are broken by name. A supplier with no recorded performance keeps a NaN
// mean and sorts last.
func PerformanceBySupplier(orders []domain.Order) []SupplierPerformance {
	groups := make(map[string]*mean)
	for _, o := range orders {
		m, ok := groups[o.SupplierName]
		if !ok {
			m = &mean{}
			groups[o.SupplierName] = m
		}
		if o.HasPerformance {
			m.add(o.DeliveryPerformancePercent)
		}
	}

	ranked := make([]SupplierPerformance, 0, len(groups))
	for name, m := range groups {
		ranked = append(ranked, SupplierPerformance{Supplier: name, MeanPerformance: Number(m.value())})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i].MeanPerformance, ranked[j].MeanPerformance
		switch {
		case a.Valid() != b.Valid():
			return a.Valid()
		case a != b && a.Valid():
			return a > b
		}
		return ranked[i].Supplier < ranked[j].Supplier
	})
	return ranked
}

// ShippingCost is the cost total of one shipping method and its share of the
// filtered total.
type ShippingCost struct {
	Method string          `json:"method"`
	Cost   decimal.Decimal `json:"cost"`
	Share  Number          `json:"share"`
}

// CostByShippingMethod sums cost per method in order of first appearance.
// Orders without a cost still register their method. Shares are NaN when the
// total is zero.
func CostByShippingMethod(orders []domain.Order) []ShippingCost {
	index := make(map[string]int)
	shares := make([]ShippingCost, 0)
	total := decimal.Zero

	for _, o := range orders {
		i, ok := index[o.ShippingMethod]
		if !ok {
			i = len(shares)
			index[o.ShippingMethod] = i
			shares = append(shares, ShippingCost{Method: o.ShippingMethod, Cost: decimal.Zero})
		}
		if !o.HasCost {
			continue
		}
		shares[i].Cost = shares[i].Cost.Add(o.Cost)
		total = total.Add(o.Cost)
	}

	for i := range shares {
		if total.IsZero() {
			shares[i].Share = nan()
			continue
		}
		shares[i].Share = Number(shares[i].Cost.Div(total).InexactFloat64())
	}
	return shares
}

// ScatterPoint is one order on the quantity/cost plane.
type ScatterPoint struct {
	OrderID     string  `json:"order_id"`
	Quantity    float64 `json:"quantity"`
	Cost        float64 `json:"cost"`
	Performance float64 `json:"performance"`
	Supplier    string  `json:"supplier"`
	Product     string  `json:"product"`
}

// ScatterSeries holds the points of one shipping method.
type ScatterSeries struct {
	Method string         `json:"method"`
	Points []ScatterPoint `json:"points"`
}

// QuantityVsCost splits orders into one series per shipping method, in order
// of first appearance. Orders missing quantity, cost or performance are not
// plotted.
func QuantityVsCost(orders []domain.Order) []ScatterSeries {
	index := make(map[string]int)
	series := make([]ScatterSeries, 0)

	for _, o := range orders {
		if !o.HasQuantity || !o.HasCost || !o.HasPerformance {
			continue
		}
		i, ok := index[o.ShippingMethod]
		if !ok {
			i = len(series)
			index[o.ShippingMethod] = i
			series = append(series, ScatterSeries{Method: o.ShippingMethod})
		}
		series[i].Points = append(series[i].Points, ScatterPoint{
			OrderID:     o.OrderID,
			Quantity:    o.Quantity,
			Cost:        o.Cost.InexactFloat64(),
			Performance: o.DeliveryPerformancePercent,
			Supplier:    o.SupplierName,
			Product:     o.ProductName,
		})
	}
	return series
}

// mean is a running arithmetic mean.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m *mean) value() float64 {
	if m.n == 0 {
		return float64(nan())
	}
	return m.sum / float64(m.n)
}
