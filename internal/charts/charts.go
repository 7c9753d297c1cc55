package charts

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"supplychain/internal/dashboard"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

// Kind names one of the dashboard charts.
type Kind string

const (
	KindLeadTime    Kind = "lead-time"
	KindPerformance Kind = "performance"
	KindShipping    Kind = "shipping"
	KindScatter     Kind = "scatter"
)

// Kinds lists every chart in display order.
var Kinds = []Kind{KindLeadTime, KindPerformance, KindShipping, KindScatter}

// ErrUnknownKind is returned for chart names outside Kinds.
var ErrUnknownKind = errors.New("unknown chart kind")

// ParseKind validates a chart name taken from a URL.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Title is the heading shown above the chart.
func (k Kind) Title() string {
	switch k {
	case KindLeadTime:
		return "Average Lead Time Over Time"
	case KindPerformance:
		return "Average Delivery Performance by Supplier"
	case KindShipping:
		return "Cost by Shipping Method"
	case KindScatter:
		return "Quantity vs Cost"
	}
	return string(k)
}

// Render writes the SVG of one chart of c to w.
func Render(w io.Writer, kind Kind, c dashboard.Charts) error {
	switch kind {
	case KindLeadTime:
		return RenderLeadTime(w, c.LeadTime)
	case KindPerformance:
		return RenderPerformance(w, c.Performance)
	case KindShipping:
		return RenderShipping(w, c.Shipping)
	case KindScatter:
		return RenderScatter(w, c.Scatter)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// RenderLeadTime draws mean lead time per order date as a line.
func RenderLeadTime(w io.Writer, points []dashboard.LeadTimePoint) error {
	series := chart.TimeSeries{
		Name: "lead_time_(days)",
		Style: chart.Style{
			StrokeColor: chart.GetDefaultColor(0),
			StrokeWidth: 2,
			DotColor:    chart.GetDefaultColor(0),
			DotWidth:    3,
		},
	}
	for _, p := range points {
		if !p.MeanLeadTime.Valid() {
			continue
		}
		series.XValues = append(series.XValues, p.Day)
		series.YValues = append(series.YValues, p.MeanLeadTime.Float())
	}
	if len(series.XValues) == 0 {
		return RenderEmpty(w, KindLeadTime.Title())
	}

	// go-chart needs two distinct x values
	if len(series.XValues) == 1 {
		series.XValues = append(series.XValues, series.XValues[0].AddDate(0, 0, 1))
		series.YValues = append(series.YValues, series.YValues[0])
		series.Style.DotWidth = 6
	}

	minX := chart.TimeToFloat64(series.XValues[0])
	maxX := chart.TimeToFloat64(series.XValues[len(series.XValues)-1])
	minY, maxY := bounds(series.YValues)

	ch := chart.Chart{
		Title:      KindLeadTime.Title(),
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "order_date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  "lead_time_(days)",
			Range: paddedRange(minY, maxY),
		},
		Series: []chart.Series{series},
	}
	return ch.Render(chart.SVG, w)
}

// RenderPerformance draws one bar per supplier shaded on a green scale by
// value, in the ranking order given.
func RenderPerformance(w io.Writer, ranked []dashboard.SupplierPerformance) error {
	var values []float64
	for _, s := range ranked {
		if s.MeanPerformance.Valid() {
			values = append(values, s.MeanPerformance.Float())
		}
	}
	if len(values) == 0 {
		return RenderEmpty(w, KindPerformance.Title())
	}
	lo, hi := bounds(values)

	bars := make([]chart.Value, 0, len(values))
	for _, s := range ranked {
		if !s.MeanPerformance.Valid() {
			continue
		}
		v := s.MeanPerformance.Float()
		col := greens(lo, hi, v)
		bars = append(bars, chart.Value{
			Label: s.Supplier,
			Value: v,
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}

	top := math.Max(100, hi)
	bc := chart.BarChart{
		Title:      KindPerformance.Title(),
		Width:      max(DefaultWidth, len(bars)*90+120),
		Height:     DefaultHeight,
		BarWidth:   60,
		BarSpacing: 30,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:  "delivery_performance_%",
			Range: &chart.ContinuousRange{Min: math.Min(0, lo), Max: top},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// RenderShipping draws each shipping method's share of the total cost.
func RenderShipping(w io.Writer, shares []dashboard.ShippingCost) error {
	values := make([]chart.Value, 0, len(shares))
	for i, s := range shares {
		if !s.Share.Valid() || s.Share.Float() <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s.Method, s.Share.Float()*100),
			Value: s.Cost.InexactFloat64(),
			Style: chart.Style{FillColor: chart.GetDefaultColor(i)},
		})
	}
	if len(values) == 0 {
		return RenderEmpty(w, KindShipping.Title())
	}

	pc := chart.PieChart{
		Title:  KindShipping.Title(),
		Width:  DefaultHeight + 100,
		Height: DefaultHeight + 100,
		Values: values,
	}
	return pc.Render(chart.SVG, w)
}

// RenderScatter draws quantity against cost. Colour follows the shipping
// method and dot size grows with delivery performance.
func RenderScatter(w io.Writer, series []dashboard.ScatterSeries) error {
	var xs, ys []float64
	for _, s := range series {
		for _, p := range s.Points {
			xs = append(xs, p.Quantity)
			ys = append(ys, p.Cost)
		}
	}
	if len(xs) == 0 {
		return RenderEmpty(w, KindScatter.Title())
	}
	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	out := make([]chart.Series, 0, len(series))
	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		points := s.Points
		cs := chart.ContinuousSeries{
			Name: s.Method,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    chart.GetDefaultColor(i),
				DotWidth:    4,
				DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
					if index >= len(points) {
						return 4
					}
					return dotSize(points[index].Performance)
				},
			},
		}
		for _, p := range points {
			cs.XValues = append(cs.XValues, p.Quantity)
			cs.YValues = append(cs.YValues, p.Cost)
		}
		out = append(out, cs)
	}

	ch := chart.Chart{
		Title:      KindScatter.Title(),
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "quantity", Range: paddedRange(minX, maxX)},
		YAxis:      chart.YAxis{Name: "cost_($)", Range: paddedRange(minY, maxY)},
		Series:     out,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.SVG, w)
}

// RenderEmpty writes a placeholder carrying the chart title and "No data".
func RenderEmpty(w io.Writer, title string) error {
	r, err := chart.SVG(DefaultWidth, DefaultHeight)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)
	r.SetFontColor(chart.ColorAlternateGray)

	r.SetFontSize(16)
	tb := r.MeasureText(title)
	r.Text(title, (DefaultWidth-tb.Width())/2, 40)

	r.SetFontSize(14)
	nb := r.MeasureText("No data")
	r.Text("No data", (DefaultWidth-nb.Width())/2, DefaultHeight/2)

	return r.Save(w)
}

// greens maps v in [lo, hi] onto a light-to-dark green ramp.
func greens(lo, hi, v float64) drawing.Color {
	light := drawing.Color{R: 199, G: 233, B: 192, A: 255}
	dark := drawing.Color{R: 0, G: 109, B: 44, A: 255}

	t := 1.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return drawing.Color{R: mix(light.R, dark.R), G: mix(light.G, dark.G), B: mix(light.B, dark.B), A: 255}
}

// dotSize scales a 0-100 performance onto a dot radius.
func dotSize(perf float64) float64 {
	p := math.Max(0, math.Min(100, perf))
	return 3 + p/100*9
}

func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange widens a degenerate or tight range so points sit inside the plot.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if hi <= lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
