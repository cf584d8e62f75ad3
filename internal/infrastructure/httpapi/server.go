// Package httpapi serves the planner as a JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"VetNutrition/internal/catalog"
	"VetNutrition/internal/domain"
	"VetNutrition/internal/energy"
	"VetNutrition/internal/infrastructure/mcptools"
	"VetNutrition/internal/ration"
	"VetNutrition/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// Deps wires the use cases behind the routes.
type Deps struct {
	Planner *usecase.Planner
	Tools   *mcptools.Tools
	Logger  *slog.Logger
}

// Server routes HTTP requests to the planner.
type Server struct {
	planner *usecase.Planner
	tools   *mcptools.Tools
	logger  *slog.Logger
	router  chi.Router
}

// NewServer builds the router.
func NewServer(deps Deps) *Server {
	s := &Server{planner: deps.Planner, tools: deps.Tools, logger: deps.Logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/energy", s.handleEnergy)
		r.Get("/states/{species}", s.handleStates)
		r.Post("/ideal-weight", s.handleIdealWeight)
		r.Post("/foods", s.handleFoods)
		r.Post("/plan", s.handlePlan)
	})
	if s.tools != nil {
		r.Post("/mcp", s.handleToolCall)
	}

	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.info("http server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		<-errCh
		s.info("http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	}
}

func (s *Server) handleEnergy(w http.ResponseWriter, r *http.Request) {
	var in domain.PatientInputs
	if !s.decode(w, r, &in) {
		return
	}
	report, err := s.planner.Energy(in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	species, err := domain.ParseSpecies(chi.URLParam(r, "species"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	states, err := s.planner.States(species)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (s *Server) handleIdealWeight(w http.ResponseWriter, r *http.Request) {
	var params mcptools.IdealWeightParams
	if !s.decode(w, r, &params) {
		return
	}
	ideal, err := s.planner.IdealWeight(params.Species, params.WeightKg, params.BodyConditionScore)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mcptools.IdealWeightResult{IdealWeightKg: ideal})
}

func (s *Server) handleFoods(w http.ResponseWriter, r *http.Request) {
	var q usecase.FoodQuery
	if !s.decode(w, r, &q) {
		return
	}
	writeJSON(w, http.StatusOK, s.planner.Foods(q))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req usecase.PlanRequest
	if !s.decode(w, r, &req) {
		return
	}
	plan, err := s.planner.Plan(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	var req protocol.CallToolRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.tools.Call(&req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		s.debug("invalid request body", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid request: %v", err)})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	var perr *mcptools.ParamsError
	switch {
	case errors.As(err, &perr),
		errors.Is(err, energy.ErrInvalidWeight),
		errors.Is(err, energy.ErrInvalidBodyCondition),
		errors.Is(err, energy.ErrMissingIdealWeight),
		errors.Is(err, domain.ErrUnknownSpecies),
		errors.Is(err, domain.ErrUnknownGoal),
		errors.Is(err, domain.ErrUnknownLifeStage),
		errors.Is(err, domain.ErrUnknownNeuterStatus):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnknownFood), errors.Is(err, mcptools.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, ration.ErrZeroEnergyDensity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.debug("http request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

func (s *Server) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Server) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
