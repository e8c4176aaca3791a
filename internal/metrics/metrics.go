// Package metrics exposes Prometheus counters for lookups and upstream
// provider calls.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Lookups counts resolved end-user queries by outcome.
	Lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consulta_lookups_total",
		Help: "End-user CNPJ lookups by outcome.",
	}, []string{"outcome"})

	// ProviderRequests counts actual upstream calls (cache hits excluded)
	// by provider and outcome.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consulta_provider_requests_total",
		Help: "Upstream provider calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	// CacheEvents counts response-cache hits and misses by provider.
	CacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consulta_cache_events_total",
		Help: "Response cache hits and misses by provider.",
	}, []string{"provider", "event"})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
