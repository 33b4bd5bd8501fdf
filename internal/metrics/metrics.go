package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var (
	collabMetricsOnce sync.Once

	collabRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaboration_requests_total",
			Help: "Total number of collaboration request attempts",
		},
		[]string{"status"},
	)

	collabAcceptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaboration_accepts_total",
			Help: "Total number of collaboration request accept attempts",
		},
		[]string{"status"},
	)

	collabRejectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaboration_rejects_total",
			Help: "Total number of collaboration request reject attempts",
		},
		[]string{"status"},
	)
)

func RegisterCollaborationMetrics() {
	collabMetricsOnce.Do(func() {
		prometheus.MustRegister(collabRequestsTotal, collabAcceptsTotal, collabRejectsTotal)
	})
}

func IncCollabRequest(status string) {
	RegisterCollaborationMetrics()
	collabRequestsTotal.WithLabelValues(status).Inc()
}

func IncCollabAccept(status string) {
	RegisterCollaborationMetrics()
	collabAcceptsTotal.WithLabelValues(status).Inc()
}

func IncCollabReject(status string) {
	RegisterCollaborationMetrics()
	collabRejectsTotal.WithLabelValues(status).Inc()
}
