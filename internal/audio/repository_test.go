package audio

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/HeyoWorld/saudi-speak-app/internal/storage"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	adapter, err := storage.NewLocalAdapter(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local adapter: %v", err)
	}
	t.Cleanup(func() { adapter.Close() })
	return NewRepository(adapter)
}

func TestSaveAndOpen(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	asset, err := repo.Save(ctx, []byte("RIFF_FAKE_WAV"), "wav")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if asset.ID == "" {
		t.Error("Expected a non-empty asset ID")
	}
	if asset.Format != "wav" {
		t.Errorf("Expected format 'wav', got '%s'", asset.Format)
	}
	if asset.Size != int64(len("RIFF_FAKE_WAV")) {
		t.Errorf("Unexpected size: %d", asset.Size)
	}

	reader, format, err := repo.Open(ctx, asset.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if format != "wav" {
		t.Errorf("Expected format 'wav', got '%s'", format)
	}
	data, _ := io.ReadAll(reader)
	if string(data) != "RIFF_FAKE_WAV" {
		t.Errorf("Unexpected data: %s", data)
	}
}

func TestOpenMissing(t *testing.T) {
	repo := newTestRepo(t)

	if _, _, err := repo.Open(context.Background(), "a_123_missing"); err == nil {
		t.Error("Expected error for missing asset")
	}
}

func TestAssetIDsAreUnique(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewAssetID(now)
		if seen[id] {
			t.Fatalf("Duplicate asset ID: %s", id)
		}
		seen[id] = true
		if !strings.HasPrefix(id, "a_") {
			t.Fatalf("Unexpected ID shape: %s", id)
		}
	}
}

func TestPrune(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	oldAsset, err := repo.Save(ctx, []byte("old"), "wav")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Everything saved so far predates this cutoff
	time.Sleep(5 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)

	newAsset, err := repo.Save(ctx, []byte("new"), "wav")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed, err := repo.Prune(ctx, cutoff)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 pruned asset, got %d", removed)
	}

	if _, _, err := repo.Open(ctx, oldAsset.ID); err == nil {
		t.Error("Old asset should be gone after pruning")
	}
	if _, _, err := repo.Open(ctx, newAsset.ID); err != nil {
		t.Errorf("New asset should survive pruning: %v", err)
	}
}

func TestCreationTimeFromPath(t *testing.T) {
	tests := []struct {
		path string
		ok   bool
	}{
		{"audio/a_1700000000000000000_abcd1234.wav", true},
		{"audio/notanasset.wav", false},
		{"audio/a_notanumber_x.wav", false},
	}

	for _, tt := range tests {
		if _, ok := creationTimeFromPath(tt.path); ok != tt.ok {
			t.Errorf("creationTimeFromPath(%q) ok = %v, want %v", tt.path, ok, tt.ok)
		}
	}
}
