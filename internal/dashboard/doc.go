// Package dashboard computes everything the supply-chain dashboard shows from
// an immutable dataset and the user's filter selection.
//
// The pipeline is a pure function:
//
//	Dataset → OptionsFor → Selection.Resolve → Apply → ComputeKPIs / chart groupings → View
//
// Nothing is cached. Every filter change calls Build again over the current
// snapshot, so two calls with the same inputs always produce the same View.
//
// Empty results are not errors. Means over zero rows are NaN, which the
// Number type renders as "n/a" in tiles and null in JSON.
package dashboard
