// Package http serves the chat service as a JSON API with server-sent event
// streams.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SWYP-foreigner/Kori-chatting/auth"
	"github.com/SWYP-foreigner/Kori-chatting/service"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/matryer/way"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestIDHeader = "X-Request-Id"

type Config struct {
	Service *service.Service
	Tokens  auth.Tokens
	Logger  *slog.Logger
	// Gatherer is served at /metrics when set.
	Gatherer prometheus.Gatherer
	// Ready reports whether the dependencies can take traffic.
	Ready func(ctx context.Context) error
}

type handler struct {
	svc    *service.Service
	tokens auth.Tokens
	logger *slog.Logger
	ready  func(ctx context.Context) error
}

func New(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	h := &handler{
		svc:    cfg.Service,
		tokens: cfg.Tokens,
		logger: logger,
		ready:  cfg.Ready,
	}

	api := way.NewRouter()

	api.HandleFunc("POST", "/rooms/one-to-one", h.createOneToOneRoom)
	api.HandleFunc("POST", "/rooms/group", h.createGroupRoom)
	api.HandleFunc("GET", "/rooms", h.roomSummaries)
	api.HandleFunc("GET", "/rooms/search", h.searchRoomSummaries)
	api.HandleFunc("POST", "/rooms/:room_id/join", h.joinGroup)
	api.HandleFunc("POST", "/rooms/:room_id/leave", h.leaveRoom)
	api.HandleFunc("GET", "/rooms/:room_id/participants", h.roomParticipants)
	api.HandleFunc("PUT", "/rooms/:room_id/translation", h.toggleTranslation)
	api.HandleFunc("PUT", "/rooms/:room_id/image", h.uploadRoomImage)
	api.HandleFunc("GET", "/rooms/:room_id/stream", h.roomStream)
	api.HandleFunc("GET", "/rooms/:room_id/first-messages", h.firstMessages)
	api.HandleFunc("GET", "/rooms/:room_id/messages/search", h.searchMessages)
	api.HandleFunc("GET", "/rooms/:room_id/messages", h.messages)
	api.HandleFunc("POST", "/rooms/:room_id/messages", h.sendMessage)
	api.HandleFunc("POST", "/rooms/:room_id/read", h.markAsRead)
	api.HandleFunc("POST", "/rooms/:room_id/read-all", h.markAllRead)
	api.HandleFunc("POST", "/rooms/:room_id/typing", h.typing)
	api.HandleFunc("DELETE", "/messages/:message_id", h.deleteMessage)
	api.HandleFunc("GET", "/groups/search", h.searchGroups)
	api.HandleFunc("GET", "/groups/latest", h.latestGroups)
	api.HandleFunc("GET", "/groups/popular", h.popularGroups)
	api.HandleFunc("GET", "/groups/:room_id", h.groupDetails)
	api.HandleFunc("GET", "/streams/messages", h.messageStream)
	api.HandleFunc("GET", "/streams/rooms", h.roomSummaryStream)
	api.HandleFunc("POST", "/web-push-subscriptions", h.saveWebPushSubscription)

	r := way.NewRouter()
	r.Handle("*", "/api/chat/...", http.StripPrefix("/api/chat", h.withAuth(api)))
	r.HandleFunc("GET", "/healthz", h.healthz)
	r.HandleFunc("GET", "/readyz", h.readyz)
	if cfg.Gatherer != nil {
		r.Handle("GET", "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return h.withRequestID(r)
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			var err error
			reqID, err = gonanoid.New()
			if err != nil {
				h.respondErr(w, err)
				return
			}
		}

		w.Header().Set(requestIDHeader, reqID)
		next.ServeHTTP(w, r)
	})
}

// withAuth puts the user of a valid bearer token in the request context.
// Requests without a token go through; the service rejects them where
// authentication is required.
func (h *handler) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		uid, err := h.tokens.Decode(token)
		if err != nil {
			h.respondErr(w, err)
			return
		}

		ctx := auth.ContextWithUserID(r.Context(), uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(a, "Bearer ") {
		return strings.TrimSpace(a[len("Bearer "):]), true
	}

	// EventSource cannot set headers.
	if token := r.URL.Query().Get("auth_token"); token != "" {
		return token, true
	}

	return "", false
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.logger.Warn("not ready", "error", err)
			h.respondErr(w, errServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
