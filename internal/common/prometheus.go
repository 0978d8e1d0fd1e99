package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	IdeaCreatedTotal           = "idea_created_total"
	SpreadEdgeCreatedTotal     = "spread_edge_created_total"
	ChainStoppedTotal          = "chain_stopped_total"
	NotificationFailureTotal   = "notification_failure_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		IdeaCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: IdeaCreatedTotal,
			Help: "Count of created ideas",
		}, []string{"visibility"}),
		SpreadEdgeCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SpreadEdgeCreatedTotal,
			Help: "Count of recorded spread edges",
		}, []string{"referrer"}),
		ChainStoppedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ChainStoppedTotal,
			Help: "Count of stopped chains",
		}, []string{}),
		NotificationFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: NotificationFailureTotal,
			Help: "Count of referral notifications which could not be sent",
		}, []string{}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)

// PromCollectors lists every domain metric, to be exposed on /metrics.
func PromCollectors() []prometheus.Collector {
	result := []prometheus.Collector{}
	for _, counter := range PromCounters {
		result = append(result, counter)
	}

	for _, histogram := range PromHistograms {
		result = append(result, histogram)
	}

	return result
}
