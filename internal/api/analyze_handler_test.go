package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HeyoWorld/saudi-speak-app/internal/activity"
	"github.com/HeyoWorld/saudi-speak-app/internal/apperr"
	"github.com/HeyoWorld/saudi-speak-app/internal/audio"
	"github.com/HeyoWorld/saudi-speak-app/internal/coach"
	"github.com/HeyoWorld/saudi-speak-app/internal/provider"
	"github.com/HeyoWorld/saudi-speak-app/internal/speech"
	"github.com/HeyoWorld/saudi-speak-app/internal/storage"
)

type testEnv struct {
	handler      *AnalyzeHandler
	analyzerStub *provider.StubAnalyzer
	synthStub    *provider.StubSynthesizer
	logPath      string
}

func newTestEnv(t *testing.T, withAnalyzer bool) *testEnv {
	t.Helper()

	adapter, err := storage.NewLocalAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() { adapter.Close() })

	reg := provider.NewRegistry()
	analyzerStub := provider.NewStubAnalyzer("stub-llm")
	if withAnalyzer {
		if err := reg.RegisterAnalyzer(analyzerStub); err != nil {
			t.Fatalf("Failed to register analyzer: %v", err)
		}
	}
	synthStub := provider.NewStubSynthesizer("stub-tts")
	if err := reg.RegisterSynthesizer(synthStub); err != nil {
		t.Fatalf("Failed to register synthesizer: %v", err)
	}

	logPath := filepath.Join(t.TempDir(), "user_activity_log.csv")
	logger, err := activity.NewLogger(logPath)
	if err != nil {
		t.Fatalf("Failed to create activity logger: %v", err)
	}

	assets := audio.NewRepository(adapter)
	return &testEnv{
		handler:      NewAnalyzeHandler(coach.NewService(reg), speech.NewService(reg, assets), logger),
		analyzerStub: analyzerStub,
		synthStub:    synthStub,
		logPath:      logPath,
	}
}

func postAnalyze(t *testing.T, env *testEnv, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	env.handler.Analyze(w, req)
	return w
}

func TestAnalyzeEndToEnd(t *testing.T) {
	env := newTestEnv(t, true)

	w := postAnalyze(t, env, `{
		"text": "Hello, I am the new regional manager",
		"style": "formal_msa",
		"user_name": "Dwight",
		"include_audio": true,
		"voice": "hamed_male",
		"rate_percent": -10
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp.SessionID == "" {
		t.Error("Expected a session ID")
	}
	if resp.Result.FinalTextVocalized == "" {
		t.Error("Expected non-empty vocalized text")
	}
	if len(resp.Result.Sentences) < 1 {
		t.Fatal("Expected at least one sentence")
	}
	for _, sent := range resp.Result.Sentences {
		for _, word := range sent.Words {
			if word.Word == "" || word.Meaning == "" {
				t.Errorf("Expected non-empty word and meaning, got %+v", word)
			}
		}
	}

	if resp.Audio == nil {
		t.Fatal("Expected drill audio refs")
	}
	if resp.Audio.Full == nil {
		t.Error("Expected a full-text audio URL")
	}
	if len(resp.Audio.Sentences) != len(resp.Result.Sentences) {
		t.Errorf("Expected %d sentence audio slots, got %d", len(resp.Result.Sentences), len(resp.Audio.Sentences))
	}
}

func TestAnalyzeLogsActivity(t *testing.T) {
	env := newTestEnv(t, true)

	longText := strings.Repeat("a", 80)
	w := postAnalyze(t, env, `{"text":"`+longText+`","style":"saudi_dialect","user_name":"Pam"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	file, err := os.Open(env.logPath)
	if err != nil {
		t.Fatalf("Activity log should exist: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse log: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header + 1 record, got %d rows", len(rows))
	}
	if rows[1][2] != "Pam" || rows[1][3] != "Analyze" {
		t.Errorf("Unexpected record: %v", rows[1])
	}
	if rows[1][4] != strings.Repeat("a", 50) {
		t.Errorf("Expected 50-char preview, got %d chars", len(rows[1][4]))
	}
}

func TestAnalyzeValidation(t *testing.T) {
	env := newTestEnv(t, true)

	t.Run("EmptyText", func(t *testing.T) {
		w := postAnalyze(t, env, `{"text":"","style":"formal_msa"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("UnknownStyle", func(t *testing.T) {
		w := postAnalyze(t, env, `{"text":"hi","style":"latin"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("BadBody", func(t *testing.T) {
		w := postAnalyze(t, env, `{{{`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("WrongMethod", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analyze", nil)
		w := httptest.NewRecorder()
		env.handler.Analyze(w, req)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})
}

func TestAnalyzeDisabledWithoutCredentials(t *testing.T) {
	env := newTestEnv(t, false)

	w := postAnalyze(t, env, `{"text":"hi","style":"formal_msa"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without analyzer, got %d", w.Code)
	}
}

func TestAnalyzeSurfacesProviderErrors(t *testing.T) {
	env := newTestEnv(t, true)
	env.analyzerStub.Err = apperr.Service(429, `{"error":"quota"}`)

	w := postAnalyze(t, env, `{"text":"hi","style":"formal_msa"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 for upstream service error, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !strings.Contains(resp["error"], "429") {
		t.Errorf("Error message should carry the upstream status, got: %s", resp["error"])
	}
}

func TestAnalyzeAudioDegradesSoftly(t *testing.T) {
	env := newTestEnv(t, true)
	env.synthStub.Err = apperr.Service(401, "bad key")

	w := postAnalyze(t, env, `{
		"text": "hello",
		"style": "formal_msa",
		"include_audio": true,
		"voice": "zariyah_female",
		"rate_percent": 0
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Renderer failure must not fail the analysis, got %d", w.Code)
	}

	var resp AnalyzeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Audio == nil {
		t.Fatal("Expected audio refs even on failure")
	}
	if resp.Audio.Full != nil {
		t.Error("Expected null full audio on synthesis failure")
	}
	for i, ref := range resp.Audio.Sentences {
		if ref != nil {
			t.Errorf("Expected null audio ref for sentence %d", i)
		}
	}
}

func TestAnalyzeKeepsClientSession(t *testing.T) {
	env := newTestEnv(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		bytes.NewBufferString(`{"text":"hi","style":"formal_msa"}`))
	req.Header.Set("X-Session-ID", "abcd1234")
	w := httptest.NewRecorder()
	env.handler.Analyze(w, req)

	var resp AnalyzeResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.SessionID != "abcd1234" {
		t.Errorf("Expected echoed session ID, got %s", resp.SessionID)
	}
}
