package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Pledge/internal/allocation"
)

var (
	allocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pledge_allocations_total",
		Help: "Allocations computed, by operation.",
	}, []string{"operation"})

	allocationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pledge_allocation_errors_total",
		Help: "Rejected allocation requests, by operation and error code.",
	}, []string{"operation", "code"})

	impactScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pledge_impact_score",
		Help:    "Impact scores of computed allocations.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	catalogCategories = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pledge_catalog_categories",
		Help: "Categories in the catalog currently in effect.",
	})
)

// ObserveCatalog records the size of a newly loaded catalog.
func ObserveCatalog(categories []allocation.Category) {
	catalogCategories.Set(float64(len(categories)))
}
