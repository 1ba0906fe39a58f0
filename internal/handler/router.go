/*
Package handler provides the HTTP handlers and routing setup for the chat service.

This file defines the main Router, applying middleware for logging, CORS,
and IP-based rate limiting before delegating to the room handlers. The HTTP
surface is the render/UI collaborator boundary: it accepts join and send
submissions and serves the polled room state.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"emberchat/internal/pkg/limiter"
	"emberchat/internal/pkg/logx"
	"emberchat/internal/pkg/resp"
)

const (
	// JoinRate limits how often a single IP may submit the join form.
	JoinRate  = 0.2
	JoinBurst = 5

	// SendRate limits how fast a single IP may post messages.
	SendRate  = 2
	SendBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global
// and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	joinLimiter := limiter.NewIPRateLimiter(rate.Limit(JoinRate), JoinBurst)
	sendLimiter := limiter.NewIPRateLimiter(rate.Limit(SendRate), SendBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
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
		data := map[string]string{
			"status":  "ok",
			"service": "Ember Chat",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api/room", func(api chi.Router) {
		rateLimitedJoin := joinLimiter.Middleware(HandleJoinRoom(deps))
		api.Post("/join", http.HandlerFunc(rateLimitedJoin.ServeHTTP))

		rateLimitedSend := sendLimiter.Middleware(HandleSendMessage(deps))
		api.Post("/send", http.HandlerFunc(rateLimitedSend.ServeHTTP))

		api.Get("/state", HandleRoomState(deps))
		api.Get("/avatars", HandleListAvatars(deps))
	})

	return r
}
