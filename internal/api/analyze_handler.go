package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/HeyoWorld/saudi-speak-app/internal/activity"
	"github.com/HeyoWorld/saudi-speak-app/internal/apperr"
	"github.com/HeyoWorld/saudi-speak-app/internal/coach"
	"github.com/HeyoWorld/saudi-speak-app/internal/speech"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

// AnalyzeHandler handles the coaching analysis endpoint
type AnalyzeHandler struct {
	coach    *coach.Service
	speech   *speech.Service
	activity *activity.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(coachSvc *coach.Service, speechSvc *speech.Service, activityLog *activity.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		coach:    coachSvc,
		speech:   speechSvc,
		activity: activityLog,
	}
}

// AnalyzeRequest is the POST /api/v1/analyze body
type AnalyzeRequest struct {
	Text         string        `json:"text"`
	Style        types.Style   `json:"style"`
	UserName     string        `json:"user_name"`
	IncludeAudio bool          `json:"include_audio"`
	Voice        types.VoiceID `json:"voice"`
	RatePercent  int           `json:"rate_percent"`
}

// AnalyzeResponse is the POST /api/v1/analyze reply
type AnalyzeResponse struct {
	SessionID string                `json:"session_id"`
	Result    *types.AnalysisResult `json:"result"`
	Audio     *DrillAudioRefs       `json:"audio,omitempty"`
}

// DrillAudioRefs references the rendered drill clips by URL. Null entries
// mean no audio is available for that clip.
type DrillAudioRefs struct {
	Full      *string   `json:"full"`
	Sentences []*string `json:"sentences"`
}

// Analyze handles POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.coach.Ready() {
		respondError(w, "Analysis is unavailable: no analyzer credentials configured", http.StatusServiceUnavailable)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		respondError(w, "Please enter some text", http.StatusBadRequest)
		return
	}
	if !types.ValidStyle(req.Style) {
		respondError(w, "Unknown style", http.StatusBadRequest)
		return
	}

	sess := sessionFromRequest(r, req.UserName)

	result, err := h.coach.Analyze(r.Context(), types.AnalysisRequest{
		Text:  req.Text,
		Style: req.Style,
	})
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	if err := h.activity.Record(sess.ID, sess.UserName, "Analyze", req.Text); err != nil {
		// Bookkeeping must not fail the analysis
		log.Printf("[API] Failed to log activity for session %s: %v", sess.ID, err)
	}

	resp := AnalyzeResponse{
		SessionID: sess.ID,
		Result:    result,
	}

	if req.IncludeAudio {
		drill := h.speech.RenderDrill(r.Context(), result, types.VoiceSettings{
			Voice:       req.Voice,
			RatePercent: req.RatePercent,
		})
		resp.Audio = drillRefs(drill)
	}

	w.Header().Set(sessionHeader, sess.ID)
	respondJSON(w, resp, http.StatusOK)
}

// drillRefs converts stored clips into audio URLs, keeping nil slots for
// clips that could not be produced
func drillRefs(drill *speech.DrillAudio) *DrillAudioRefs {
	refs := &DrillAudioRefs{
		Sentences: make([]*string, len(drill.Sentences)),
	}
	if drill.Full != nil {
		refs.Full = audioURL(drill.Full.ID)
	}
	for i, clip := range drill.Sentences {
		if clip != nil {
			refs.Sentences[i] = audioURL(clip.ID)
		}
	}
	return refs
}

func audioURL(id string) *string {
	u := "/api/v1/audio/" + id
	return &u
}

// statusForError maps the failure taxonomy onto HTTP statuses. The error
// text itself is passed through to the user unchanged.
func statusForError(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeConfig:
		return http.StatusServiceUnavailable
	case apperr.CodeTransport:
		return http.StatusGatewayTimeout
	case apperr.CodeService, apperr.CodeProtocol, apperr.CodeParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
