// Package metrics exposes projection metrics through a private Prometheus
// registry.
package metrics
