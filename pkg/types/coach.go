package types

import "time"

// Style selects the target Arabic register for an analysis.
type Style string

const (
	StyleSaudiDialect Style = "saudi_dialect"
	StyleFormalMSA    Style = "formal_msa"
)

// ValidStyle reports whether s is one of the supported styles.
func ValidStyle(s Style) bool {
	return s == StyleSaudiDialect || s == StyleFormalMSA
}

// VoiceID selects one of the supported neural voices.
type VoiceID string

const (
	VoiceHamedMale     VoiceID = "hamed_male"
	VoiceZariyahFemale VoiceID = "zariyah_female"
)

// ValidVoice reports whether v is one of the supported voices.
func ValidVoice(v VoiceID) bool {
	return v == VoiceHamedMale || v == VoiceZariyahFemale
}

// AnalysisRequest is the input to the language analyzer.
type AnalysisRequest struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// AnalysisResult is the structured coaching breakdown returned by the analyzer.
type AnalysisResult struct {
	FinalTextVocalized string              `json:"final_text_vocalized"`
	FeedbackNote       string              `json:"feedback_note"`
	Sentences          []SentenceBreakdown `json:"sentences"`
}

// SentenceBreakdown is one vocalized sentence with its translation and words.
type SentenceBreakdown struct {
	Segment     string      `json:"segment"`
	Translation string      `json:"translation"`
	Words       []WordEntry `json:"words"`
}

// WordEntry is a single word with its meaning and root.
type WordEntry struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Root    string `json:"root"`
}

// VoiceSettings holds the voice and prosody rate for synthesis.
// RatePercent must be within [-50, 50].
type VoiceSettings struct {
	Voice       VoiceID `json:"voice"`
	RatePercent int     `json:"rate_percent"`
}

// AudioAsset references a stored synthesized audio file.
type AudioAsset struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Format    string    `json:"format"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityRecord is one append-only row in the activity log.
type ActivityRecord struct {
	Timestamp      time.Time
	UserID         string
	UserName       string
	Action         string
	ContentPreview string
}
