// Package audio stores synthesized clips behind the storage adapter and
// bounds how long they are retained.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/HeyoWorld/saudi-speak-app/internal/storage"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
	"github.com/google/uuid"
)

const assetPrefix = "audio/"

// Repository persists audio assets
type Repository struct {
	storage storage.Adapter
}

// NewRepository creates a new audio asset repository
func NewRepository(storageAdapter storage.Adapter) *Repository {
	return &Repository{storage: storageAdapter}
}

// NewAssetID generates an asset ID embedding its creation time, so retention
// pruning needs no separate index.
func NewAssetID(now time.Time) string {
	return fmt.Sprintf("a_%d_%s", now.UnixNano(), uuid.NewString()[:8])
}

// AssetPath returns the storage path for an asset ID
func AssetPath(id, format string) string {
	return path.Join(assetPrefix, fmt.Sprintf("%s.%s", id, format))
}

// Save stores audio data and returns the asset reference
func (r *Repository) Save(ctx context.Context, data []byte, format string) (*types.AudioAsset, error) {
	now := time.Now()
	id := NewAssetID(now)
	assetPath := AssetPath(id, format)

	if err := r.storage.Put(ctx, assetPath, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store audio asset: %w", err)
	}

	return &types.AudioAsset{
		ID:        id,
		Path:      assetPath,
		Format:    format,
		Size:      int64(len(data)),
		CreatedAt: now,
	}, nil
}

// Open returns a reader for the asset with the given ID, trying the known
// formats in order.
func (r *Repository) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	for _, format := range []string{"wav", "mp3"} {
		reader, err := r.storage.Get(ctx, AssetPath(id, format))
		if err == nil {
			return reader, format, nil
		}
	}
	return nil, "", fmt.Errorf("audio asset not found: %s", id)
}

// Prune deletes assets created before the cutoff and returns how many were
// removed. Paths that do not carry a parsable creation time are left alone.
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	paths, err := r.storage.List(ctx, assetPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list audio assets: %w", err)
	}

	removed := 0
	for _, p := range paths {
		createdAt, ok := creationTimeFromPath(p)
		if !ok {
			continue
		}
		if createdAt.Before(cutoff) {
			if err := r.storage.Delete(ctx, p); err != nil {
				log.Printf("[AUDIO] Failed to prune %s: %v", p, err)
				continue
			}
			removed++
		}
	}

	return removed, nil
}

// creationTimeFromPath recovers the creation time embedded in an asset path
// of the form audio/a_<unixnano>_<suffix>.<format>
func creationTimeFromPath(p string) (time.Time, bool) {
	base := path.Base(p)
	parts := strings.SplitN(base, "_", 3)
	if len(parts) != 3 || parts[0] != "a" {
		return time.Time{}, false
	}
	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, nanos), true
}
