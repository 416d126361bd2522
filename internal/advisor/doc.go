// Package advisor provides per-pose guide landmark templates used to draw
// alignment overlays before analysis results arrive.
package advisor
