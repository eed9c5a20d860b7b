/*
Package handler provides the HTTP handlers and routing setup for the TalentX messaging server.

This file defines the main Router, applying middleware like logging, CORS and IP-based
rate limiting before delegating requests to the REST handlers and the WebSocket gateway.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"talentx/internal/app/metrics"
	"talentx/internal/app/user"
	"talentx/internal/pkg/auth/jwt"
	"talentx/internal/pkg/limiter"
	"talentx/internal/pkg/logx"
	"talentx/internal/pkg/resp"
)

const (
	LoginRate    = 0.2
	LoginBurst   = 5
	ConnectRate  = 0.5
	ConnectBurst = 10
)

// NewLoginLimiter returns the per-IP limiter for /api/auth/login.
func NewLoginLimiter() *limiter.KeyedLimiter {
	return limiter.NewKeyedLimiter(rate.Limit(LoginRate), LoginBurst)
}

// NewConnectLimiter returns the per-IP limiter for WebSocket upgrades.
func NewConnectLimiter() *limiter.KeyedLimiter {
	return limiter.NewKeyedLimiter(rate.Limit(ConnectRate), ConnectBurst)
}

// Router sets up the main HTTP routing table (chi.Router) for the application.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "TalentX Messaging",
		})
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	secret := deps.Config.JWTSecret

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			if deps.LoginLimiter != nil {
				auth.With(deps.LoginLimiter.Middleware).Post("/login", HandleLogin(deps))
			} else {
				auth.Post("/login", HandleLogin(deps))
			}
			auth.Get("/me", jwt.Require(secret, HandleMe(deps)))
		})

		api.Route("/messages", func(msgs chi.Router) {
			msgs.Get("/", jwt.RequireRole(secret, user.RoleClient, HandleGetMessages(deps)))
			msgs.Post("/", jwt.RequireRole(secret, user.RoleClient, HandleCreateMessage(deps)))
			msgs.Get("/unread-count", jwt.RequireRole(secret, user.RoleClient, HandleUnreadCount(deps)))
			msgs.Patch("/mark-read", jwt.RequireRole(secret, user.RoleClient, HandleMarkRead(deps)))
		})
	})

	r.Get("/ws", HandleWebSocket(deps.Gateway, wsUpgrader, deps.ConnectLimiter))

	return r
}
