// Package chart renders the report figures as PNG.
//
// Builders are stateless: each takes one aggregated table and returns a
// Figure whose Render writes the image. Plot construction happens inside
// Render, so a Figure is cheap to build and safe to render more than once.
// The area donut uses go-chart; everything else uses gonum/plot.
package chart
