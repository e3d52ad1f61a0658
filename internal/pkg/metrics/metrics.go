// Package metrics exposes Prometheus counters for mint/redeem outcomes,
// risk decisions, and rate-limit hits, grounded on the counter/histogram
// pattern used across the retrieved examples' HTTP handlers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "withdrawal_tokens_http_requests_total",
		Help: "Total HTTP requests, labeled by route and status",
	}, []string{"route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "withdrawal_tokens_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route"})

	MintOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "withdrawal_tokens_mint_outcomes_total",
		Help: "Token mint attempts, labeled by outcome",
	}, []string{"outcome"})

	RedeemOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "withdrawal_tokens_redeem_outcomes_total",
		Help: "Token redeem attempts, labeled by result",
	}, []string{"result"})

	RiskDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "withdrawal_tokens_risk_decisions_total",
		Help: "Risk engine decisions, labeled by decision",
	}, []string{"decision"})

	RateLimitHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "withdrawal_tokens_rate_limit_hits_total",
		Help: "Requests rejected by the rate limiter, labeled by scope",
	}, []string{"scope"})
)

// Handler returns the HTTP handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
