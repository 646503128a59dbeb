package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// askRequest is the ask API request body.
type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	out, err := s.engine.Ask(r.Context(), req.Question, req.SessionID, nil)
	if err != nil {
		log.Printf("server: ask failed: %v", err)
		writeError(w, http.StatusBadGateway, "answering failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.assembler.Assemble(r.Context(), out))
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	minConfidence := 0.5
	if v := r.URL.Query().Get("min_confidence"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			writeError(w, http.StatusBadRequest, "min_confidence must be in [0,1]")
			return
		}
		minConfidence = f
	}

	writeJSON(w, http.StatusOK, componentView(s.filteredGraph(), minConfidence))
}

func (s *Server) handleEntryPoints(w http.ResponseWriter, r *http.Request) {
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entry_points": entryPointView(s.graph, n),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
