package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ResolverLookups counts name lookups by kind (car, track) and the stage
	// that produced the result (exact, partial, fuzzy, miss)
	ResolverLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "g61_resolver_lookups_total",
			Help: "Total number of name lookups by kind and matching stage",
		},
		[]string{"kind", "stage"},
	)

	// APIRequests counts Garage61 API requests by endpoint and status code
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "g61_api_requests_total",
			Help: "Total number of Garage61 API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	// CatalogEntities holds the number of cached cars and tracks
	CatalogEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "g61_catalog_entities",
			Help: "Number of entities in the current catalog by kind",
		},
		[]string{"kind"},
	)
)

const (
	StageExact   = "exact"
	StagePartial = "partial"
	StageFuzzy   = "fuzzy"
	StageMiss    = "miss"
)

// RecordLookup increments the lookup counter
func RecordLookup(kind, stage string) {
	ResolverLookups.WithLabelValues(kind, stage).Inc()
}

// RecordCatalog updates the entity gauges
func RecordCatalog(cars, tracks int) {
	CatalogEntities.WithLabelValues("cars").Set(float64(cars))
	CatalogEntities.WithLabelValues("tracks").Set(float64(tracks))
}

// MetricsHandler returns the prometheus handler for the default registry
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
