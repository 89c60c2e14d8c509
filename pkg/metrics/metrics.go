package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "board", Name: "rate_limit_allowed_total", Help: "Number of admitted requests by counter store and route class."},
		[]string{"limiter", "class"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "board", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by counter store and route class."},
		[]string{"limiter", "class"},
	)
	CommentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "board", Name: "comments_created_total", Help: "Comments persisted, by entry point."},
		[]string{"source"},
	)
	SubmissionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "board", Name: "submissions_rejected_total", Help: "Submissions rejected before persistence, by reason."},
		[]string{"reason"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "board", Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(CommentsCreated)
	reg.MustRegister(SubmissionsRejected)
	reg.MustRegister(RequestDuration)
}
