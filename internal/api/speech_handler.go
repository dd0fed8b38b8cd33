package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/HeyoWorld/saudi-speak-app/internal/audio"
	"github.com/HeyoWorld/saudi-speak-app/internal/speech"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

// SpeechHandler handles synthesis and audio delivery endpoints
type SpeechHandler struct {
	speech *speech.Service
	assets *audio.Repository
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(speechSvc *speech.Service, assets *audio.Repository) *SpeechHandler {
	return &SpeechHandler{
		speech: speechSvc,
		assets: assets,
	}
}

// SpeechRequest is the POST /api/v1/speech body
type SpeechRequest struct {
	Text        string        `json:"text"`
	Voice       types.VoiceID `json:"voice"`
	RatePercent int           `json:"rate_percent"`
}

// SpeechResponse is the POST /api/v1/speech reply. Audio is null when no
// clip could be produced; Reason says why.
type SpeechResponse struct {
	Audio  *string `json:"audio"`
	Reason string  `json:"reason,omitempty"`
}

// Synthesize handles POST /api/v1/speech. Renderer failures degrade to a
// null audio reference with the cause logged, never an error status.
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Text != "" {
		if err := speech.ValidateSettings(types.VoiceSettings{Voice: req.Voice, RatePercent: req.RatePercent}); err != nil {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	asset, err := h.speech.Render(r.Context(), req.Text, types.VoiceSettings{
		Voice:       req.Voice,
		RatePercent: req.RatePercent,
	})
	if err != nil {
		log.Printf("[API] Speech unavailable: %v", err)
		respondJSON(w, SpeechResponse{Audio: nil, Reason: "no audio available"}, http.StatusOK)
		return
	}
	if asset == nil {
		respondJSON(w, SpeechResponse{Audio: nil}, http.StatusOK)
		return
	}

	respondJSON(w, SpeechResponse{Audio: audioURL(asset.ID)}, http.StatusOK)
}

// GetAudio handles GET /api/v1/audio/{id}
func (h *SpeechHandler) GetAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/audio/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, "Invalid audio asset ID", http.StatusBadRequest)
		return
	}

	reader, format, err := h.assets.Open(r.Context(), id)
	if err != nil {
		respondError(w, "Audio file not found", http.StatusNotFound)
		return
	}
	defer reader.Close()

	contentType := "audio/wav"
	if format == "mp3" {
		contentType = "audio/mpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, reader)
}
