package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/veritube/internal/model"
)

func testDoc(videoID string) *model.ResultDocument {
	return &model.ResultDocument{
		VideoID: videoID,
		Claims: []model.AlignedClaim{
			{Timestamp: 0, Claim: "moon landing 1969", Verdict: "accurate", Explanation: "Correct."},
		},
	}
}

func TestStore_WriteReadExists(t *testing.T) {
	s := New(t.TempDir())

	if s.Exists("abc123") {
		t.Error("Exists should be false before write")
	}

	if err := s.Write("abc123", testDoc("abc123")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !s.Exists("abc123") {
		t.Error("Exists should be true after write")
	}

	doc, err := s.Read("abc123")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if doc.VideoID != "abc123" || len(doc.Claims) != 1 {
		t.Errorf("unexpected document: %+v", doc)
	}
	if doc.Claims[0].Verdict != "accurate" {
		t.Errorf("unexpected claim: %+v", doc.Claims[0])
	}
}

func TestStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")
	s := New(dir)

	if err := s.Write("abc123", testDoc("abc123")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "abc123.json")); err != nil {
		t.Errorf("result file missing: %v", err)
	}
}

func TestStore_PrettyPrintedJSON(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := s.Write("abc123", testDoc("abc123")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "abc123.json"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("expected indented JSON output")
	}

	var doc model.ResultDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Claims[0].Timestamp != 0 {
		t.Errorf("unexpected timestamp: %v", doc.Claims[0].Timestamp)
	}
}

func TestStore_RejectsUnsafeVideoIDs(t *testing.T) {
	s := New(t.TempDir())

	for _, id := range []string{"", "../escape", "a/b", `a\b`, ".hidden"} {
		if err := s.Write(id, testDoc(id)); err == nil {
			t.Errorf("Write(%q) should have failed", id)
		}
		if s.Exists(id) {
			t.Errorf("Exists(%q) should be false", id)
		}
	}
}

func TestStore_ReadMissing(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Read("nope"); err == nil {
		t.Error("expected error reading missing result")
	}
}
