package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"talentx/internal/app/realtime"
	"talentx/internal/pkg/errs"
	"talentx/internal/pkg/limiter"
	"talentx/internal/pkg/logx"
	"talentx/internal/pkg/resp"
)

// HandleWebSocket upgrades the request and hands the connection to the gateway.
// Authentication happens inside the protocol with an auth envelope, not at upgrade time.
// A nil rateLimiter admits every upgrade.
func HandleWebSocket(gateway *realtime.Gateway, upgrader websocket.Upgrader, rateLimiter *limiter.KeyedLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if rateLimiter != nil && !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		gateway.Serve(conn)
	}
}
