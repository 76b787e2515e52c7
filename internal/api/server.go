// Package api exposes a MIDI client over HTTP for a UI layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/delugian/midi/internal/message"
	"github.com/delugian/midi/sdk/contracts"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server routes HTTP requests to a contracts.ClientMIDI.
type Server struct {
	client contracts.ClientMIDI
	logger contracts.Logger
	router *mux.Router
}

type connectRequest struct {
	PreferredIndex int `json:"preferredIndex"`
}

type chordResponse struct {
	Notes []uint8 `json:"notes"`
}

type sysExRequest struct {
	Data string `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer builds the routes for client.
func NewServer(client contracts.ClientMIDI, logger contracts.Logger) *Server {
	s := &Server{client: client, logger: logger}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/devices", s.handleDevices).Methods(http.MethodGet)
	router.HandleFunc("/connect", s.handleConnect).Methods(http.MethodPost)
	router.HandleFunc("/disconnect", s.handleDisconnect).Methods(http.MethodPost)
	router.HandleFunc("/chord", s.handleChord).Methods(http.MethodGet)
	router.HandleFunc("/sysex", s.handleSysEx).Methods(http.MethodPost)
	s.router = router

	return s
}

// Handler returns the router wrapped with CORS for browser front ends.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.router)
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.client.RefreshDevices())
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	device, err := s.client.Connect(req.PreferredIndex)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, contracts.ErrDeviceUnavailable) {
			status = http.StatusServiceUnavailable
		}
		s.writeError(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, device)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Disconnect(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChord(w http.ResponseWriter, r *http.Request) {
	notes := s.client.CurrentChord()
	if notes == nil {
		notes = []uint8{}
	}
	s.writeJSON(w, http.StatusOK, chordResponse{Notes: notes})
}

func (s *Server) handleSysEx(w http.ResponseWriter, r *http.Request) {
	var req sysExRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	data, err := message.ParseHex(req.Data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.client.SendSysEx(data); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, contracts.ErrNotConnected) || errors.Is(err, contracts.ErrNoOutputPort) {
			status = http.StatusConflict
		}
		s.writeError(w, status, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", s.logger.Field().Error("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("Request failed",
		s.logger.Field().Int("status", status),
		s.logger.Field().Error("error", err))
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
