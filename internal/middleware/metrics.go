package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	updatesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telegram_bot_updates_received_total",
		Help: "Total number of updates received, by kind",
	}, []string{"kind"})

	commandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telegram_bot_commands_executed_total",
		Help: "Total number of commands executed",
	}, []string{"command"})

	accessDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telegram_bot_access_denied_total",
		Help: "Total number of updates rejected by the allow-list",
	})

	reactionsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telegram_bot_reactions_sent_total",
		Help: "Total number of emoji reactions sent",
	})

	aiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "telegram_bot_ai_request_duration_seconds",
		Help:    "Duration of AI provider requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "model", "status"})

	aiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telegram_bot_ai_requests_total",
		Help: "Total number of AI provider requests",
	}, []string{"provider", "model", "status"})
)

// Metrics provides methods to record metrics
type Metrics struct{}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordUpdateReceived records a received update by kind.
func (m *Metrics) RecordUpdateReceived(kind string) {
	updatesReceived.WithLabelValues(kind).Inc()
}

// RecordCommandExecuted records an executed command
func (m *Metrics) RecordCommandExecuted(command string) {
	commandsExecuted.WithLabelValues(command).Inc()
}

// RecordAccessDenied records an allow-list rejection.
func (m *Metrics) RecordAccessDenied() {
	accessDenied.Inc()
}

// RecordReactionSent records an emoji reaction.
func (m *Metrics) RecordReactionSent() {
	reactionsSent.Inc()
}

// RecordAIRequest records an AI provider request outcome.
func (m *Metrics) RecordAIRequest(provider, model, status string, duration time.Duration) {
	aiRequestDuration.WithLabelValues(provider, model, status).Observe(duration.Seconds())
	aiRequestsTotal.WithLabelValues(provider, model, status).Inc()
}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
