package main

import (
	"net/http"

	"github.com/Dgut/crdt/replica"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type GraphMetrics struct {
	Replica *replica.Metrics
}

// NewGraphMetrics returns Prometheus-backed instruments if
// an address to expose them on is configured and discarding
// ones otherwise.
func NewGraphMetrics(prometheusAddr string) *GraphMetrics {

	m := &GraphMetrics{}

	if prometheusAddr == "" {
		m.Replica = &replica.Metrics{
			Operations: discard.NewCounter(),
			Merges:     discard.NewCounter(),
			PathLength: discard.NewHistogram(),
			Vertices:   discard.NewGauge(),
			Tombstones: discard.NewGauge(),
		}
	} else {
		m.Replica = &replica.Metrics{
			Operations: prometheus.NewCounterFrom(prom.CounterOpts{
				Namespace: "lwwgraph",
				Subsystem: "replica",
				Name:      "operations_total",
				Help:      "Number of local updates applied per replica",
			}, []string{"replica", "method"}),
			Merges: prometheus.NewCounterFrom(prom.CounterOpts{
				Namespace: "lwwgraph",
				Subsystem: "replica",
				Name:      "merges_total",
				Help:      "Number of snapshots merged per replica",
			}, []string{"replica"}),
			PathLength: prometheus.NewHistogramFrom(prom.HistogramOpts{
				Namespace: "lwwgraph",
				Subsystem: "replica",
				Name:      "path_hops",
				Help:      "Number of hops of paths found",
				Buckets:   prom.ExponentialBuckets(1, 4, 10),
			}, []string{"replica"}),
			Vertices: prometheus.NewGaugeFrom(prom.GaugeOpts{
				Namespace: "lwwgraph",
				Subsystem: "replica",
				Name:      "vertices",
				Help:      "Number of live vertices after the latest merge",
			}, []string{"replica"}),
			Tombstones: prometheus.NewGaugeFrom(prom.GaugeOpts{
				Namespace: "lwwgraph",
				Subsystem: "replica",
				Name:      "tombstones",
				Help:      "Number of recorded removals after the latest merge",
			}, []string{"replica"}),
		}
	}

	return m
}

func runPromHTTP(logger log.Logger, addr string) {

	if addr == "" {
		level.Debug(logger).Log("msg", "prometheus addr is empty, not exposing prometheus metrics")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	level.Info(logger).Log("msg", "prometheus handler listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		level.Warn(logger).Log("msg", "failed to serve prometheus metrics", "err", err)
	}
}
