package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitemenu"

// PrometheusRecorder records projection outcomes. It satisfies
// service.ProjectionRecorder.
type PrometheusRecorder struct {
	reg         *prom.Registry
	projections *prom.CounterVec
	duration    *prom.HistogramVec
	nodes       *prom.HistogramVec
}

// NewPrometheusRecorder registers the projection metrics on reg. A nil reg
// gets a fresh registry that also carries the Go and process collectors.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
		reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	}
	pr := &PrometheusRecorder{
		reg: reg,
		projections: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Navigation projections by kind and outcome",
		}, []string{"kind", "outcome"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "projection_duration_seconds",
			Help:      "Duration of navigation projections",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		nodes: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_nodes",
			Help:      "Number of render nodes produced per projection",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.projections, pr.duration, pr.nodes)
	return pr
}

func (p *PrometheusRecorder) RecordProjection(kind, outcome string, d time.Duration, nodes int) {
	if p == nil {
		return
	}
	p.projections.WithLabelValues(kind, outcome).Inc()
	p.duration.WithLabelValues(kind).Observe(d.Seconds())
	p.nodes.WithLabelValues(kind).Observe(float64(nodes))
}

// Registry returns the registry the recorder writes to.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

// HTTPHandler serves the recorder's registry in the Prometheus exposition
// format.
func (p *PrometheusRecorder) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
