// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/samber/oops"

	"github.com/banterchat/banter/internal/auth"
	"github.com/banterchat/banter/internal/chat"
	"github.com/banterchat/banter/internal/observability"
	"github.com/banterchat/banter/internal/realtime"
)

const requestTimeout = 60 * time.Second

// Options configures the Router.
type Options struct {
	// AllowedOrigins is passed to the CORS middleware. Empty means all.
	AllowedOrigins []string

	// SecureCookies marks session cookies Secure. Off for plain-HTTP dev.
	SecureCookies bool
}

// Router wires the HTTP API to the services.
type Router struct {
	mux      chi.Router
	logger   *slog.Logger
	auth     *auth.Service
	chat     *chat.Service
	hub      *realtime.Hub
	issuer   *auth.TokenIssuer
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
	opts     Options
}

// NewRouter assembles routes with dependencies. metrics may be nil when the
// observability server is disabled.
func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	chatSvc *chat.Service,
	hub *realtime.Hub,
	issuer *auth.TokenIssuer,
	metrics *observability.Metrics,
	opts Options,
) (*Router, error) {
	if authSvc == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if chatSvc == nil {
		return nil, oops.Errorf("chat service is required")
	}
	if hub == nil {
		return nil, oops.Errorf("realtime hub is required")
	}
	if issuer == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	rt := &Router{
		mux:     chi.NewRouter(),
		logger:  logger,
		auth:    authSvc,
		chat:    chatSvc,
		hub:     hub,
		issuer:  issuer,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		opts: opts,
	}
	rt.register()
	return rt, nil
}

// ServeHTTP delegates to the underlying chi mux.
func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rt.mux.ServeHTTP(w, req)
}

func (rt *Router) register() {
	origins := rt.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	rt.mux.Use(middleware.RequestID)
	rt.mux.Use(middleware.RealIP)
	rt.mux.Use(rt.requestLogger)
	rt.mux.Use(middleware.Recoverer)
	rt.mux.Use(middleware.Timeout(requestTimeout))
	rt.mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	rt.mux.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", rt.handleSignup)
		r.Post("/auth/login", rt.handleLogin)
		r.Post("/auth/logout", rt.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(rt.requireSession)
			r.Get("/auth/me", rt.handleMe)
			r.Get("/users", rt.handleListUsers)
			r.Post("/messages/send/{id}", rt.handleSendMessage)
			r.Get("/messages/{id}", rt.handleConversation)
			r.Get("/ws", rt.handleWebsocket)
		})
	})
}

// requestLogger emits one structured line per request.
func (rt *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, req)

		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if reqID := middleware.GetReqID(req.Context()); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}

		switch {
		case ww.Status() >= http.StatusInternalServerError:
			rt.logger.Error("http_request", fields...)
		case ww.Status() >= http.StatusBadRequest:
			rt.logger.Warn("http_request", fields...)
		default:
			rt.logger.Info("http_request", fields...)
		}
	})
}
