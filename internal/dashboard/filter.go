package dashboard

import (
	"time"

	"supplychain/pkg/contracts/domain"
)

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls on a day inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(day(r.From)) && !d.After(day(r.To))
}

// Empty reports whether the range selects no day at all.
func (r DateRange) Empty() bool {
	return day(r.From).After(day(r.To))
}

// Filter is a fully resolved set of predicates. All of them must hold.
type Filter struct {
	Suppliers []string  `json:"suppliers"`
	Products  []string  `json:"products"`
	Dates     DateRange `json:"dates"`
}

// Apply returns the orders matching every predicate of f, in input order.
// An empty supplier or product set matches nothing.
func Apply(orders []domain.Order, f Filter) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	if len(f.Suppliers) == 0 || len(f.Products) == 0 || f.Dates.Empty() {
		return out
	}

	suppliers := toSet(f.Suppliers)
	products := toSet(f.Products)
	for _, o := range orders {
		if _, ok := suppliers[o.SupplierName]; !ok {
			continue
		}
		if _, ok := products[o.ProductName]; !ok {
			continue
		}
		if !f.Dates.Contains(o.OrderDate) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Options are the choices offered by the filter controls.
type Options struct {
	Suppliers []string  `json:"suppliers"`
	Products  []string  `json:"products"`
	MinDate   time.Time `json:"min_date"`
	MaxDate   time.Time `json:"max_date"`
}

// OptionsFor lists distinct suppliers and products in order of first
// appearance along with the order date bounds.
func OptionsFor(ds *domain.Dataset) Options {
	return optionsFor(ds.Orders())
}

func optionsFor(orders []domain.Order) Options {
	opts := Options{
		Suppliers: []string{},
		Products:  []string{},
	}
	seenSupplier := make(map[string]struct{})
	seenProduct := make(map[string]struct{})

	for i, o := range orders {
		if _, ok := seenSupplier[o.SupplierName]; !ok {
			seenSupplier[o.SupplierName] = struct{}{}
			opts.Suppliers = append(opts.Suppliers, o.SupplierName)
		}
		if _, ok := seenProduct[o.ProductName]; !ok {
			seenProduct[o.ProductName] = struct{}{}
			opts.Products = append(opts.Products, o.ProductName)
		}
		if i == 0 || o.OrderDate.Before(opts.MinDate) {
			opts.MinDate = o.OrderDate
		}
		if i == 0 || o.OrderDate.After(opts.MaxDate) {
			opts.MaxDate = o.OrderDate
		}
	}
	return opts
}

// Selection is what the user picked. Before the first interaction Applied is
// false and the supplier and product sets mean "everything".
type Selection struct {
	Applied   bool
	Suppliers []string
	Products  []string
	From      *time.Time
	To        *time.Time
}

// Resolve fills the defaults from opts and returns a concrete Filter.
func (s Selection) Resolve(opts Options) Filter {
	f := Filter{
		Suppliers: clone(s.Suppliers),
		Products:  clone(s.Products),
		Dates:     DateRange{From: opts.MinDate, To: opts.MaxDate},
	}
	if !s.Applied {
		f.Suppliers = clone(opts.Suppliers)
		f.Products = clone(opts.Products)
	}
	if s.From != nil {
		f.Dates.From = day(*s.From)
	}
	if s.To != nil {
		f.Dates.To = day(*s.To)
	}
	return f
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func clone(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
