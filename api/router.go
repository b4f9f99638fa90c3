package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jjscout/hellscore-merch-qr/generator"
)

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	Generator *generator.Generator
	Log       *slog.Logger
	Version   string
	StartTime time.Time

	// Sheet shape used when a request omits rows or cols.
	SheetRows int
	SheetCols int
}

// NewRouter returns a fully configured chi router with all preview routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Log))

	r.Get("/status", s.handleStatus)
	r.Get("/variations", s.handleVariations)

	// Rendered images
	r.Get("/label.png", s.handleLabel)
	r.Get("/sheet.png", s.handleSheet)

	return r
}

// --- helpers ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// --- middleware --------------------------------------------------------------

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}
