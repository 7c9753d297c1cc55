// Package charts renders the four dashboard charts as SVG with go-chart.
//
// The browser draws interactive versions client-side; these renderings back
// the /api/charts endpoints and the no-script fallbacks. Empty data never
// fails: it renders a titled "No data" placeholder of the same size.
package charts
