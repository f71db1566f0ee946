package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/wricardo/fleet-garage/fleet/catalog"
	"github.com/wricardo/fleet-garage/fleet/service"
	"github.com/wricardo/fleet-garage/fleet/vehicle"
	"github.com/wricardo/fleet-garage/transport/websocket"
)

// Error codes returned alongside the error message
const (
	codeInvalidArgument = "invalid_argument"
	codeNotFound        = "not_found"
	codeInternal        = "internal"
)

// Server represents the REST API server
type Server struct {
	service service.FleetService
	hub     *websocket.Hub
	router  *mux.Router
	logger  zerolog.Logger
}

// NewServer creates a new API server. hub may be nil when live updates are not needed.
func NewServer(fleetService service.FleetService, hub *websocket.Hub, logger zerolog.Logger) *Server {
	s := &Server{
		service: fleetService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger.With().Str("component", "api").Logger(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	// Registration and lookup
	api.HandleFunc("/vehicles", s.handleListVehicles).Methods("GET")
	api.HandleFunc("/vehicles", s.handleCreateVehicle).Methods("POST")
	// Preset route must be registered before the {id} patterns
	api.HandleFunc("/vehicles/presets/{preset}", s.handleAddPreset).Methods("POST")
	api.HandleFunc("/vehicles/{id}", s.handleGetVehicle).Methods("GET")

	// Engine and fuel
	api.HandleFunc("/vehicles/{id}/start", s.mutation(s.service.StartEngine)).Methods("POST")
	api.HandleFunc("/vehicles/{id}/stop", s.mutation(s.service.StopEngine)).Methods("POST")
	api.HandleFunc("/vehicles/{id}/fuel", s.mutation(s.service.AddFuel)).Methods("POST")

	// Catalog
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": message, "code": code})
}

// respondServiceError maps service and domain errors onto HTTP statuses
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, codeInvalidArgument, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, catalog.ErrPresetNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, err.Error())
	case vehicle.IsVehicleError(err):
		respondError(w, http.StatusConflict, vehicle.FaultCode(err), err.Error())
	default:
		s.logger.Error().Err(err).Msg("unexpected service error")
		respondError(w, http.StatusInternalServerError, codeInternal, err.Error())
	}
}

// Vehicle Handlers

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.service.ListVehicles(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(vehicles),
		"vehicles": vehicles,
	})
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req service.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidArgument, "Invalid request body")
		return
	}

	info, err := s.service.CreateVehicle(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.broadcast(info)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleAddPreset(w http.ResponseWriter, r *http.Request) {
	presetID := strings.TrimSuffix(mux.Vars(r)["preset"], ".json")

	info, err := s.service.AddPreset(r.Context(), presetID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.broadcast(info)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// mutation adapts an engine or fuel operation into a handler
func (s *Server) mutation(op func(ctx context.Context, vehicleID string) (*service.VehicleInfo, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := op(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			s.respondServiceError(w, err)
			return
		}

		s.broadcast(info)
		respondJSON(w, http.StatusOK, info)
	}
}

// Catalog Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(presets),
		"presets": presets,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, codeInternal, "live updates are disabled")
		return
	}

	vehicleID := strings.TrimSpace(r.URL.Query().Get("vehicle"))
	if vehicleID != websocket.FleetTopic {
		// Subscriptions are keyed by the canonical id
		info, err := s.service.GetVehicle(r.Context(), vehicleID)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		vehicleID = info.ID.String()
	}

	s.hub.ServeWS(w, r, vehicleID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) broadcast(info *service.VehicleInfo) {
	if s.hub != nil {
		s.hub.BroadcastVehicle(info)
	}
}

// logRequests writes one log line per request
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrade take over the connection
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
