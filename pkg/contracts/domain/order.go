package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents one row of the supply-chain workbook after normalization.
// The Has* flags are false when the workbook cell was blank.
type Order struct {
	OrderID                    string          `json:"order_id"`
	SupplierName               string          `json:"supplier_name"`
	ProductName                string          `json:"product_name"`
	OrderDate                  time.Time       `json:"order_date"`
	DeliveryDate               time.Time       `json:"delivery_date"`
	LeadTimeDays               float64         `json:"lead_time_days"`
	HasLeadTime                bool            `json:"has_lead_time"`
	DeliveryPerformancePercent float64         `json:"delivery_performance_percent"`
	HasPerformance             bool            `json:"has_performance"`
	Cost                       decimal.Decimal `json:"cost"`
	HasCost                    bool            `json:"has_cost"`
	Quantity                   float64         `json:"quantity"`
	HasQuantity                bool            `json:"has_quantity"`
	ShippingMethod             string          `json:"shipping_method"`
}

// Dataset is an immutable snapshot of every order loaded from one workbook.
// A new Dataset replaces the old one on reload; nothing mutates it in place.
type Dataset struct {
	source          string
	loadedAt        time.Time
	leadTimeDerived bool
	orders          []Order
}

// NewDataset copies orders into a new snapshot
func NewDataset(source string, loadedAt time.Time, leadTimeDerived bool, orders []Order) *Dataset {
	cp := make([]Order, len(orders))
	copy(cp, orders)
	return &Dataset{
		source:          source,
		loadedAt:        loadedAt,
		leadTimeDerived: leadTimeDerived,
		orders:          cp,
	}
}

// Source returns the workbook path the snapshot was read from
func (d *Dataset) Source() string { return d.source }

// LoadedAt returns when the snapshot was built
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// LeadTimeDerived reports whether lead times were computed from the two dates
func (d *Dataset) LeadTimeDerived() bool { return d.leadTimeDerived }

// Len returns the number of orders
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.orders)
}

// Orders returns a copy of the records in workbook order
func (d *Dataset) Orders() []Order {
	if d == nil {
		return nil
	}
	cp := make([]Order, len(d.orders))
	copy(cp, d.orders)
	return cp
}

// DatasetInfo summarises a snapshot for health and reload responses
type DatasetInfo struct {
	Source          string    `json:"source"`
	Rows            int       `json:"rows"`
	LoadedAt        time.Time `json:"loaded_at"`
	LeadTimeDerived bool      `json:"lead_time_derived"`
}

// Info returns the summary of the snapshot
func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		Source:          d.source,
		Rows:            len(d.orders),
		LoadedAt:        d.loadedAt,
		LeadTimeDerived: d.leadTimeDerived,
	}
}
