package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                         sync.Once
	metricsRouter                *chi.Mux
	httpRequestDurationHistogram *prometheus.HistogramVec
	bridgeOutcomeCounter         *prometheus.CounterVec
	staleObjectRetryCounter      *prometheus.CounterVec
	ledgerRequestLatency         *prometheus.HistogramVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := fmt.Sprintf(":%d", metricsPort)
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)

	bridgeOutcomeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_request_outcomes_total",
			Help: "Total number of bridge requests by direction and terminal outcome.",
		},
		[]string{"direction", "outcome"},
	)

	staleObjectRetryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_stale_object_retries_total",
			Help: "Total number of destination submissions retried after a stale object rejection.",
		},
		[]string{"direction"},
	)

	ledgerRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_request_duration_seconds",
			Help:    "Histogram of ledger RPC request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"ledger", "method", "outcome"},
	)

	prometheus.MustRegister(
		httpRequestDurationHistogram,
		bridgeOutcomeCounter,
		staleObjectRetryCounter,
		ledgerRequestLatency,
	)

}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

// StartLedgerRequestTimer starts a timer to measure a single ledger RPC call.
// A no-op before Init so ledger clients stay usable in isolation.
func StartLedgerRequestTimer(ledger, method string) func(outcome Outcome) {
	if ledgerRequestLatency == nil {
		return func(Outcome) {}
	}
	startTime := time.Now()
	return func(outcome Outcome) {
		duration := time.Since(startTime).Seconds()
		ledgerRequestLatency.WithLabelValues(ledger, method, outcome.String()).Observe(duration)
	}
}

func RecordBridgeOutcome(direction, outcome string) {
	if bridgeOutcomeCounter == nil {
		return
	}
	bridgeOutcomeCounter.WithLabelValues(direction, outcome).Inc()
}

func RecordStaleObjectRetry(direction string) {
	if staleObjectRetryCounter == nil {
		return
	}
	staleObjectRetryCounter.WithLabelValues(direction).Inc()
}
