package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "report_designer",
		Subsystem: "template_cache",
		Name:      "lookups_total",
		Help:      "Template cache lookups by result",
	}, []string{"result"})

	templateWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "report_designer",
		Subsystem: "templates",
		Name:      "writes_total",
		Help:      "Template writes by operation and outcome",
	}, []string{"op", "outcome"})
)
