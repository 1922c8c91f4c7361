// Package metrics exposes Prometheus counters for queries, completions and
// tool calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mcp_agent"

// Metrics holds the collectors of one process. It implements
// tools.Recorder and llm.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	queries        *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	completions    *prometheus.CounterVec
	completionTime *prometheus.HistogramVec
	tokens         *prometheus.CounterVec
	toolCalls      *prometheus.CounterVec
	fallbacks      *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "User queries by answering path and outcome.",
		}, []string{"path", "outcome"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end query latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"path"}),
		completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion endpoint calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		completionTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Completion endpoint latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens consumed by direction.",
		}, []string{"provider", "direction"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_fallbacks_total",
			Help:      "Fallback strategies triggered by tool.",
		}, []string{"tool"}),
	}
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveQuery records one finished query. outcome is "ok" or an error kind.
func (m *Metrics) ObserveQuery(path, outcome string, elapsed time.Duration) {
	if path == "" {
		path = "none"
	}
	m.queries.WithLabelValues(path, outcome).Inc()
	m.queryDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// ObserveCompletion implements llm.Recorder.
func (m *Metrics) ObserveCompletion(provider, outcome string, elapsed time.Duration, promptTokens, completionTokens int) {
	m.completions.WithLabelValues(provider, outcome).Inc()
	m.completionTime.WithLabelValues(provider).Observe(elapsed.Seconds())
	m.tokens.WithLabelValues(provider, "prompt").Add(float64(promptTokens))
	m.tokens.WithLabelValues(provider, "completion").Add(float64(completionTokens))
}

// ObserveToolCall implements tools.Recorder.
func (m *Metrics) ObserveToolCall(tool, outcome string) {
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
}

// ObserveFallback implements tools.Recorder.
func (m *Metrics) ObserveFallback(tool string) {
	m.fallbacks.WithLabelValues(tool).Inc()
}
