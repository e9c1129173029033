package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var raisedTotal = sync.OnceValue(func() *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alerts",
		Name:      "raised_total",
		Help:      "Alerts stored per kind; result is created or duplicate.",
	}, []string{"kind", "result"})
})
