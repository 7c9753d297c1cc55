package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"supplychain/pkg/contracts/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func order(id, supplier, product, ordered string, lead int, perf float64, cost string, qty float64, ship string) domain.Order {
	return domain.Order{
		OrderID:                    id,
		SupplierName:               supplier,
		ProductName:                product,
		OrderDate:                  date(ordered),
		DeliveryDate:               date(ordered).AddDate(0, 0, lead),
		LeadTimeDays:               float64(lead),
		HasLeadTime:                true,
		DeliveryPerformancePercent: perf,
		HasPerformance:             true,
		Cost:                       decimal.RequireFromString(cost),
		HasCost:                    true,
		Quantity:                   qty,
		HasQuantity:                true,
		ShippingMethod:             ship,
	}
}

func sampleOrders() []domain.Order {
	return []domain.Order{
		order("O-1", "SupplierA", "ProductX", "2024-01-01", 4, 90, "100", 5, "Air"),
		order("O-2", "SupplierB", "ProductY", "2024-01-15", 6, 80, "250.50", 10, "Sea"),
		order("O-3", "SupplierA", "ProductY", "2024-02-03", 2, 70, "1000", 1, "Air"),
		order("O-4", "SupplierC", "ProductX", "2024-02-20", 8, 100, "49.50", 20, "Road"),
		order("O-4", "SupplierC", "ProductZ", "2024-02-20", 5, 95, "0.25", 2, "Sea"),
	}
}

func sampleDataset() *domain.Dataset {
	return domain.NewDataset("orders.xlsx", date("2024-03-01"), true, sampleOrders())
}
