package httpapi

import (
	"net/http"
	"time"

	"github.com/DoyleJ11/checkers-server/internal/hub"
	"github.com/DoyleJ11/checkers-server/internal/obslog"
	"github.com/DoyleJ11/checkers-server/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func SetupRoutes(h *hub.Hub, sb *ws.Switchboard, opts ws.Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, sb, opts))

	r.Group(func(r chi.Router) {
		r.Use(accessLog)
		r.Get("/rooms/{code}", RoomSnapshot(h))
	})
	return r
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		obslog.L().Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}
