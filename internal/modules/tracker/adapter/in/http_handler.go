package in

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	hclog "github.com/hashicorp/go-hclog"

	"tasktrail/internal/modules/tracker/dto"
	trackerin "tasktrail/internal/modules/tracker/port/in"
	"tasktrail/internal/platform/clock"
	apperrors "tasktrail/internal/platform/errors"
)

type HTTPHandler struct {
	router  *chi.Mux
	usecase trackerin.Usecase
	clock   clock.Clock
	logger  hclog.Logger
}

func NewHTTPHandler(usecase trackerin.Usecase, clk clock.Clock, logger hclog.Logger) *HTTPHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	h := &HTTPHandler{
		router:  chi.NewRouter(),
		usecase: usecase,
		clock:   clk,
		logger:  logger.Named("http"),
	}
	h.router.Use(middleware.RequestID)
	h.router.Use(h.requestLogger)
	h.router.Use(middleware.Recoverer)

	h.router.Get("/health", h.health)
	h.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/sessions", h.sessions)
		r.Get("/summary", h.summary)
		r.Get("/tasks", h.tasks)
		r.Get("/categories", h.categories)
		r.Post("/track", h.track)
	})
	return h
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *HTTPHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) sessions(w http.ResponseWriter, r *http.Request) {
	window, ok := h.window(w, r)
	if !ok {
		return
	}
	out, err := h.usecase.ListSessions(r.Context(), window)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) summary(w http.ResponseWriter, r *http.Request) {
	day, err := ParseDay(r.URL.Query().Get("day"), h.clock.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out, err := h.usecase.DailySummary(r.Context(), day)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) tasks(w http.ResponseWriter, r *http.Request) {
	window, ok := h.window(w, r)
	if !ok {
		return
	}
	out, err := h.usecase.Tasks(r.Context(), window)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) categories(w http.ResponseWriter, r *http.Request) {
	window, ok := h.window(w, r)
	if !ok {
		return
	}
	out, err := h.usecase.Categories(r.Context(), window)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) track(w http.ResponseWriter, r *http.Request) {
	window, ok := h.window(w, r)
	if !ok {
		return
	}
	dryRun := false
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, apperrors.ErrInvalidInput)
			return
		}
		dryRun = v
	}
	out, err := h.usecase.Track(r.Context(), dto.TrackInput{From: window.From, To: window.To, DryRun: dryRun})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) window(w http.ResponseWriter, r *http.Request) (dto.WindowInput, bool) {
	q := r.URL.Query()
	window, err := ParseWindow(q.Get("day"), q.Get("from"), q.Get("to"), h.clock.Now())
	if err != nil {
		h.writeError(w, err)
		return dto.WindowInput{}, false
	}
	return window, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInputOrdering):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *HTTPHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
