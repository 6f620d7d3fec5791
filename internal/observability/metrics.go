package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes.
const (
	ResolutionMatched   = "matched"
	ResolutionNotFound  = "not_found"
	ResolutionMalformed = "malformed"
	ResolutionFailed    = "failed"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medstock_http_requests_total",
			Help: "Total number of HTTP requests by route pattern.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "medstock_http_request_duration_seconds",
			Help: "HTTP request latency by route pattern.",
			// Assistant requests wait on two oracle calls.
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route", "status"},
	)
	httpRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "medstock_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)
	authFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medstock_auth_failures_total",
			Help: "Total number of rejected API key checks by reason.",
		},
		[]string{"reason"},
	)

	resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medstock_resolutions_total",
			Help: "Total number of medication resolutions by outcome.",
		},
		[]string{"outcome"},
	)
	oracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medstock_oracle_requests_total",
			Help: "Total number of language model requests by provider, prompt and status.",
		},
		[]string{"provider", "stage", "status"},
	)
	oracleRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medstock_oracle_request_duration_seconds",
			Help:    "Language model request latency by provider and prompt.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"provider", "stage"},
	)
	answersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medstock_answers_total",
			Help: "Total number of assistant questions by status.",
		},
		[]string{"status"},
	)
	dataConsistencyErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "medstock_data_consistency_errors_total",
			Help: "Total number of resolved supply ids without exactly one supply row.",
		},
	)
	snapshotRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medstock_snapshot_runs_total",
			Help: "Total number of stock snapshot runs by status.",
		},
		[]string{"status"},
	)
	snapshotRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "medstock_snapshot_rows_total",
			Help: "Total number of supply rows written to stock snapshots.",
		},
	)
	transcriptsArchivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medstock_transcripts_archived_total",
			Help: "Total number of answer transcripts written to object storage by status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		httpRequestsInFlight,
		authFailuresTotal,
		resolutionsTotal,
		oracleRequestsTotal,
		oracleRequestDurationSeconds,
		answersTotal,
		dataConsistencyErrorsTotal,
		snapshotRunsTotal,
		snapshotRowsTotal,
		transcriptsArchivedTotal,
	)
}

func ObserveAuthFailure(reason string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
}

func ObserveResolution(outcome string) {
	resolutionsTotal.WithLabelValues(outcome).Inc()
}

func ObserveOracleRequest(provider, stage string, err error, elapsed time.Duration) {
	oracleRequestsTotal.WithLabelValues(provider, stage, statusLabel(err)).Inc()
	oracleRequestDurationSeconds.WithLabelValues(provider, stage).Observe(elapsed.Seconds())
}

func ObserveAnswer(status string) {
	answersTotal.WithLabelValues(status).Inc()
}

func IncrementDataConsistencyErrors() {
	dataConsistencyErrorsTotal.Inc()
}

func ObserveSnapshotRun(rows int, err error) {
	snapshotRunsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err == nil && rows > 0 {
		snapshotRowsTotal.Add(float64(rows))
	}
}

func ObserveTranscriptArchive(err error) {
	transcriptsArchivedTotal.WithLabelValues(statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
