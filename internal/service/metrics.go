package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	suggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menubebe_meal_suggestions_total",
			Help: "Meal suggestion requests by outcome",
		},
		[]string{"outcome"},
	)

	upstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menubebe_upstream_request_duration_seconds",
			Help:    "Latency of generative API calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)
)

const outcomeSuccess = "success"
