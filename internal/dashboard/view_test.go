package dashboard

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain/pkg/contracts/domain"
)

func tileValues(v View) map[string]string {
	out := make(map[string]string, len(v.Tiles))
	for _, tile := range v.Tiles {
		out[tile.Label] = tile.Value
	}
	return out
}

func TestBuildSingleOrder(t *testing.T) {
	ds := domain.NewDataset("orders.xlsx", time.Now(), true, []domain.Order{
		order("O-1", "SupplierA", "ProductX", "2024-01-01", 4, 90, "100", 5, "Air"),
	})

	v := Build(ds, Selection{})
	assert.Equal(t, 1, v.Rows)
	assert.Equal(t, 1, v.KPIs.TotalOrders)
	assert.Equal(t, map[string]string{
		"Total Orders":             "1",
		"Avg Lead Time (Days)":     "4.0",
		"Avg Delivery Performance": "90.0%",
		"Total Cost ($)":           "$100.00",
	}, tileValues(v))

	require.Len(t, v.Charts.LeadTime, 1)
	assert.Equal(t, "2024-01-01", v.Charts.LeadTime[0].Date)
	require.Len(t, v.Charts.Performance, 1)
	require.Len(t, v.Charts.Shipping, 1)
	require.Len(t, v.Charts.Scatter, 1)
}

func TestBuildEmptySupplierSelection(t *testing.T) {
	v := Build(sampleDataset(), Selection{Applied: true, Products: []string{"ProductX"}})

	assert.Equal(t, 0, v.Rows)
	assert.Equal(t, 5, v.TotalRows)
	assert.Empty(t, v.Orders)
	assert.True(t, math.IsNaN(v.KPIs.AvgLeadTime.Float()))
	assert.Equal(t, "n/a", tileValues(v)["Avg Lead Time (Days)"])
	assert.Equal(t, "$0.00", tileValues(v)["Total Cost ($)"])
	assert.Empty(t, v.Charts.LeadTime)
	assert.Empty(t, v.Charts.Performance)
	assert.Empty(t, v.Charts.Shipping)
	assert.Empty(t, v.Charts.Scatter)
	assert.Equal(t, []string{"SupplierA", "SupplierB", "SupplierC"}, v.Options.Suppliers, "options stay complete")
}

func TestBuildDateRangeExcludesJanuary(t *testing.T) {
	v := Build(sampleDataset(), Selection{
		From: ptr(date("2024-02-01")),
		To:   ptr(date("2024-02-29")),
	})

	require.Equal(t, 3, v.Rows)
	for _, o := range v.Orders {
		assert.Equal(t, time.February, o.OrderDate.Month())
	}
}

func TestBuildIsPure(t *testing.T) {
	ds := sampleDataset()
	sel := Selection{Applied: true, Suppliers: []string{"SupplierA", "SupplierC"}, Products: []string{"ProductX", "ProductY"}}

	first := Build(ds, sel)
	second := Build(ds, sel)
	assert.Equal(t, first, second)
	assert.Equal(t, 5, ds.Len())
}

func TestBuildJSON(t *testing.T) {
	v := Build(sampleDataset(), Selection{Applied: true})

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	kpis := decoded["kpis"].(map[string]any)
	assert.Nil(t, kpis["avg_lead_time"])
	assert.Equal(t, "Supply Chain Dashboard", decoded["title"])
	assert.NotContains(t, decoded, "Orders")

	charts := decoded["charts"].(map[string]any)
	assert.Equal(t, []any{}, charts["lead_time"], "empty charts encode as arrays")
}

func TestBuildNilDataset(t *testing.T) {
	v := Build(nil, Selection{})
	assert.Equal(t, 0, v.TotalRows)
	assert.Len(t, v.Tiles, 4)
}
