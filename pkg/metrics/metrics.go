// Package metrics documents the Prometheus metrics exported by newswire.
// All metrics are defined in their respective packages (enrich, pager,
// source, resolver, cache, ratelimit) to maintain modularity and avoid
// circular dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by newswire.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Enrichment Metrics (pkg/enrich):
//   - newswire_resolutions_in_flight (Gauge): Link resolutions currently outstanding
//   - newswire_resolutions_total{outcome} (Counter): Resolutions by outcome (resolved, unresolved)
//   - newswire_resolution_duration_seconds (Histogram): Individual resolution duration
//
// Page Metrics (pkg/pager):
//   - newswire_pages_total{result} (Counter): Page fetches by result (ok, end, invalid_cursor, source_error)
//   - newswire_page_duration_seconds (Histogram): Full page fetch duration including enrichment
//
// Source Metrics (pkg/source):
//   - newswire_source_requests_total{status} (Counter): Content API requests by status
//   - newswire_source_request_duration_seconds (Histogram): Content API request duration
//   - newswire_source_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//   - newswire_source_retries_total{error_class} (Counter): Retry attempts by error class
//   - newswire_source_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - newswire_source_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Resolver Metrics (pkg/resolver):
//   - newswire_resolver_requests_total{result} (Counter): Resolution requests by result (resolved, cached, failed)
//
// Cache Metrics (pkg/cache):
//   - newswire_cache_hits_total (Counter): Resolved-host cache hits
//   - newswire_cache_misses_total (Counter): Resolved-host cache misses
//   - newswire_cache_errors_total{operation} (Counter): Cache operation errors
//
// Rate Limit Metrics (pkg/ratelimit):
//   - newswire_rate_limit_remaining (Gauge): Requests remaining in the current budget window
//   - newswire_rate_limit_blocks_total (Counter): Requests blocked due to critical budget
//   - newswire_rate_limit_throttles_total (Counter): Requests throttled due to low budget
//
// Example Prometheus Queries:
//
//   # Unresolved link rate
//   rate(newswire_resolutions_total{outcome="unresolved"}[5m]) /
//   rate(newswire_resolutions_total[5m])
//
//   # Cache Hit Rate
//   rate(newswire_cache_hits_total[5m]) /
//   (rate(newswire_cache_hits_total[5m]) + rate(newswire_cache_misses_total[5m]))
//
//   # P95 Page Latency
//   histogram_quantile(0.95, rate(newswire_page_duration_seconds_bucket[5m]))
//
//   # Budget Status
//   newswire_rate_limit_remaining < 10
