package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"supplychain/internal/dataprocessing"
	"supplychain/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// OrderHeaders are the CSV columns written for each order
var OrderHeaders = []string{
	dataprocessing.ColOrderID,
	dataprocessing.ColSupplierName,
	dataprocessing.ColProductName,
	dataprocessing.ColOrderDate,
	dataprocessing.ColDeliveryDate,
	dataprocessing.ColLeadTime,
	dataprocessing.ColPerformancePercent,
	dataprocessing.ColCost,
	dataprocessing.ColQuantity,
	dataprocessing.ColShippingMethod,
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	writer *csv.Writer
	count  int
}

// NewStreamWriter writes the BOM and headers and returns a writer for records
func NewStreamWriter(w io.Writer, options WriteOptions) (*StreamWriter, error) {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record %d: %w", s.count, err)
	}
	s.count++
	return nil
}

// Count returns the number of records written so far
func (s *StreamWriter) Count() int {
	return s.count
}

// Close flushes buffered records
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	return s.writer.Error()
}

// WriteOrders writes orders as CSV with a BOM and canonical headers
func WriteOrders(w io.Writer, orders []domain.Order) error {
	stream, err := NewStreamWriter(w, WriteOptions{Headers: OrderHeaders, BOMPrefix: true})
	if err != nil {
		return err
	}

	for _, o := range orders {
		if err := stream.WriteRecord(orderRecord(o)); err != nil {
			return err
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	slog.Debug("Orders exported", slog.Int("record_count", stream.Count()))
	return nil
}

// orderRecord leaves missing values blank.
func orderRecord(o domain.Order) []string {
	var lead, perf, cost, qty string
	if o.HasLeadTime {
		lead = formatFloat(o.LeadTimeDays)
	}
	if o.HasPerformance {
		perf = formatFloat(o.DeliveryPerformancePercent)
	}
	if o.HasCost {
		cost = o.Cost.StringFixed(2)
	}
	if o.HasQuantity {
		qty = formatFloat(o.Quantity)
	}
	return []string{
		o.OrderID,
		o.SupplierName,
		o.ProductName,
		formatDate(o.OrderDate),
		formatDate(o.DeliveryDate),
		lead,
		perf,
		cost,
		qty,
		o.ShippingMethod,
	}
}
