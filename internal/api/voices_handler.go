package api

import (
	"net/http"

	"github.com/HeyoWorld/saudi-speak-app/internal/speech"
)

// VoicesHandler serves the supported voice catalog
type VoicesHandler struct{}

// NewVoicesHandler creates a new voices handler
func NewVoicesHandler() *VoicesHandler {
	return &VoicesHandler{}
}

// ListVoices handles GET /api/v1/voices
func (h *VoicesHandler) ListVoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	voices := speech.Voices()
	respondJSON(w, map[string]interface{}{
		"voices": voices,
		"count":  len(voices),
	}, http.StatusOK)
}
