package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mragil/expense-tracker-wa/internal/messenger"
)

type statusResponse struct {
	Status string `json:"status"`
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(statusResponse{Status: status})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service": "expense-tracker-wa",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, "ok")
}

func (s *Server) handleMessagesUpsert(w http.ResponseWriter, r *http.Request) {
	var event messenger.MessageEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	status, err := s.webhook.Handle(r.Context(), &event)
	if err != nil {
		s.logger.Error(r.Context(), "error handling message event", "error", err)
		writeStatus(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeStatus(w, http.StatusOK, string(status))
}

func (s *Server) handleGroupsUpsert(w http.ResponseWriter, r *http.Request) {
	var event messenger.GroupsUpsertEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	status, err := s.admission.HandleGroupUpsert(r.Context(), &event)
	if err != nil {
		s.logger.Error(r.Context(), "error handling group upsert", "error", err)
		writeStatus(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeStatus(w, http.StatusOK, string(status))
}

func (s *Server) handleParticipantsUpdate(w http.ResponseWriter, r *http.Request) {
	var event messenger.ParticipantsUpdateEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	status, err := s.admission.HandleParticipantsUpdate(r.Context(), &event)
	if err != nil {
		s.logger.Error(r.Context(), "error handling participants update", "error", err)
		writeStatus(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeStatus(w, http.StatusOK, string(status))
}
