// Package metrics provides the Prometheus registry reference for art-table.
// Metrics are defined in their respective packages (source, cache, prefetch,
// selection, session) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by art-table.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Source Metrics (pkg/source):
//   - arttable_source_requests_total{status} (Counter): Page requests by status ("200", "cache_hit", "network_error", ...)
//   - arttable_source_request_duration_seconds (Histogram): Page request duration
//   - arttable_source_errors_total{class} (Counter): Fetch errors by class (client, server, rate_limit, network)
//   - arttable_source_retries_total{error_class} (Counter): Retry attempts by error class
//   - arttable_source_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - arttable_source_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - arttable_cache_hits_total{layer="redis"} (Counter): Page cache hits by layer
//   - arttable_cache_misses_total (Counter): Page cache misses
//   - arttable_cache_errors_total{operation} (Counter): Cache operation errors
//
// Prefetch Metrics (pkg/prefetch):
//   - arttable_prefetch_pages_fetched_total (Counter): Pages fetched by the bulk prefetcher
//   - arttable_prefetch_duplicates_total (Counter): Records discarded as duplicates
//   - arttable_prefetch_cached_records (Gauge): Distinct records held by the prefetch cache
//
// Selection Metrics (pkg/selection):
//   - arttable_selection_size (Gauge): Records currently selected
//
// Session Metrics (pkg/session):
//   - arttable_bulk_selects_total{outcome} (Counter): Bulk-select requests by outcome (complete, partial, rejected)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(arttable_cache_hits_total[5m])) /
//   (sum(rate(arttable_cache_hits_total[5m])) + sum(rate(arttable_cache_misses_total[5m])))
//
//   # Fetch Error Rate
//   rate(arttable_source_errors_total[5m])
//
//   # P95 Page Fetch Latency
//   histogram_quantile(0.95, rate(arttable_source_request_duration_seconds_bucket[5m]))
//
//   # Partial Bulk-Select Ratio
//   rate(arttable_bulk_selects_total{outcome="partial"}[5m]) /
//   rate(arttable_bulk_selects_total[5m])
