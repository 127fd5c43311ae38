// Package httpapi exposes the service's HTTP surface: POST /plan, and
// GET /health, /ready, /metrics for operational visibility.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/draymaster/hos-planner-service/internal/apperrors"
	"github.com/draymaster/hos-planner-service/internal/logger"
	"github.com/draymaster/hos-planner-service/internal/trip"
	"github.com/draymaster/hos-planner-service/internal/validation"
)

// planRequest is the JSON body of POST /plan.
type planRequest struct {
	CurrentLocation   string  `json:"current_location" validate:"required,min=1,max=500"`
	PickupLocation    string  `json:"pickup_location" validate:"required,min=1,max=500"`
	DropoffLocation   string  `json:"dropoff_location" validate:"required,min=1,max=500"`
	CurrentCycleHours float64 `json:"current_cycle_hours" validate:"gte=0,lte=70"`
}

// Server wires the trip orchestrator to a net/http.ServeMux, with a
// logging+recovery middleware chain in front of every handler.
type Server struct {
	mux       *http.ServeMux
	tripSvc   *trip.Service
	validator *validation.RequestValidator
	log       *logger.Logger

	startedAt    time.Time
	requestCount int64
	errorCount   int64

	ready atomic.Bool
}

// NewServer builds the HTTP handler tree.
func NewServer(tripSvc *trip.Service, log *logger.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		tripSvc:   tripSvc,
		validator: validation.NewRequestValidator(),
		log:       log,
		startedAt: time.Now(),
	}
	s.ready.Store(true)

	s.mux.HandleFunc("/plan", s.handlePlan)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/ready", s.handleReady)
	s.mux.HandleFunc("/metrics", s.handleMetrics)

	return s
}

// Handler returns the server's middleware-wrapped http.Handler.
func (s *Server) Handler() http.Handler {
	return s.withMiddleware(s.mux)
}

// SetReady flips the /ready response, for use once outbound clients have
// been constructed (or torn down during shutdown).
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		ctx := logger.ToContext(r.Context(), s.log.WithRequestID(requestID))
		r = r.WithContext(ctx)

		defer func() {
			if rec := recover(); rec != nil {
				atomic.AddInt64(&s.errorCount, 1)
				s.log.Errorw("panic recovered", "request_id", requestID, "panic", rec)
				writeError(w, apperrors.InternalInvariantViolation("internal server error"))
			}
		}()

		atomic.AddInt64(&s.requestCount, 1)
		next.ServeHTTP(w, r)

		s.log.Infow("request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InputInvalid("invalid request body: "+err.Error()))
		return
	}

	if err := s.validator.Validate(req); err != nil {
		writeError(w, apperrors.InputInvalid(err.Error()))
		return
	}

	requestID := uuid.New().String()
	response, err := s.tripSvc.Plan(r.Context(), requestID, trip.Request{
		CurrentLocation:   req.CurrentLocation,
		PickupLocation:    req.PickupLocation,
		DropoffLocation:   req.DropoffLocation,
		CurrentCycleHours: req.CurrentCycleHours,
	})
	if err != nil {
		atomic.AddInt64(&s.errorCount, 1)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	uptime := time.Since(s.startedAt).Seconds()
	_, _ = w.Write([]byte(
		"hos_planner_requests_total " + strconv.FormatInt(atomic.LoadInt64(&s.requestCount), 10) + "\n" +
			"hos_planner_errors_total " + strconv.FormatInt(atomic.LoadInt64(&s.errorCount), 10) + "\n" +
			"hos_planner_uptime_seconds " + strconv.FormatFloat(uptime, 'f', 1, 64) + "\n",
	))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		writeJSON(w, appErr.StatusCode(), map[string]string{"error": appErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

