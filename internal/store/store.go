// Package store persists per-video fact-check results as JSON files.
// The existence of a result file is the pipeline's only idempotency
// marker: no separate state store exists. Single writer per process is
// assumed; queue items are processed sequentially so no locking is done.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/atomicfile"

	"github.com/ppiankov/veritube/internal/model"
)

// Store writes and reads result documents under a results directory
type Store struct {
	dir string
}

// New creates a result store rooted at dir
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Exists reports whether a result document for the video is already on disk
func (s *Store) Exists(videoID string) bool {
	if !validVideoID(videoID) {
		return false
	}
	_, err := os.Stat(s.Path(videoID))
	return err == nil
}

// Write persists the document as pretty-printed JSON, creating the
// results directory if absent. Callers check Exists first as an
// idempotency gate; Write itself overwrites unconditionally.
func (s *Store) Write(videoID string, doc *model.ResultDocument) error {
	if !validVideoID(videoID) {
		return fmt.Errorf("invalid video ID %q", videoID)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	f, err := atomicfile.New(s.Path(videoID), 0644)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer f.Cancel()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return f.Close()
}

// Read loads a previously written result document
func (s *Store) Read(videoID string) (*model.ResultDocument, error) {
	if !validVideoID(videoID) {
		return nil, fmt.Errorf("invalid video ID %q", videoID)
	}

	data, err := os.ReadFile(s.Path(videoID))
	if err != nil {
		return nil, err
	}

	var doc model.ResultDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", videoID, err)
	}
	return &doc, nil
}

// Path returns the result file path for a video ID
func (s *Store) Path(videoID string) string {
	return filepath.Join(s.dir, videoID+".json")
}

// validVideoID rejects IDs that would escape the results directory.
// YouTube IDs are URL-safe base64; anything with a separator or a
// leading dot is not a video ID.
func validVideoID(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
