package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "register",
		Name:      "exports_total",
		Help:      "Register of Information exports by format.",
	}, []string{"format"})

	exportRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "register",
		Name:      "export_rows",
		Help:      "Rows per Register of Information export.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
)
