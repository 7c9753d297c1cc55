package dataprocessing

import "strings"

// Workbook headers before canonicalization.
const (
	HeaderOrderDate    = "Order Date"
	HeaderDeliveryDate = "Delivery Date"
	HeaderLeadTime     = "Lead Time (Days)"
)

// Canonical column names after Normalize.
const (
	ColOrderID             = "order_id"
	ColSupplierName        = "supplier_name"
	ColProductName         = "product_name"
	ColOrderDate           = "order_date"
	ColDeliveryDate        = "delivery_date"
	ColLeadTime            = "lead_time_(days)"
	ColDeliveryPerformance = "delivery_performance_(%)"
	ColPerformancePercent  = "delivery_performance_%"
	ColCost                = "cost_($)"
	ColQuantity            = "quantity"
	ColShippingMethod      = "shipping_method"
)

// CanonicalColumnName trims the name, replaces spaces with underscores and
// lowercases it. Applying it twice gives the same result as applying it once.
func CanonicalColumnName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}
