package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	"talentx/internal/app/message"
	"talentx/internal/app/metrics"
	"talentx/internal/app/realtime"
	"talentx/internal/configs"
	"talentx/internal/pkg/limiter"
)

// AppDeps carries everything the HTTP layer needs.
type AppDeps struct {
	Config   *configs.AppConfig
	Store    message.Store
	Messages *message.Service
	Gateway  *realtime.Gateway

	// Per-IP limiters for login and WebSocket upgrades. The caller owns them and
	// stops them on shutdown; a nil limiter disables that check.
	LoginLimiter   *limiter.KeyedLimiter
	ConnectLimiter *limiter.KeyedLimiter

	// Metrics and Gatherer are optional; /metrics is mounted only with a Gatherer.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}
