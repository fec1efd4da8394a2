// Package analysis computes the descriptive views of the fire report.
//
// Every function is a pure read over a slice of cleaned records: inputs are
// never modified, outputs are freshly allocated and deterministically ordered.
package analysis
