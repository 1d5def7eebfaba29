package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranscriptAppendsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "transcript.log")
	tr := NewTranscript(path)

	tr.Event("channel-1", "bootstrap", "session created by 42")
	tr.Event("channel-1", "defeat", "42 defeated npc-a")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("transcript file should exist: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "channel-1 [bootstrap] session created by 42") {
		t.Fatalf("missing bootstrap line in %q", text)
	}
	if !strings.Contains(text, "channel-1 [defeat] 42 defeated npc-a") {
		t.Fatalf("missing defeat line in %q", text)
	}
	if got := strings.Count(text, "\n"); got != 2 {
		t.Fatalf("expected 2 lines, got %d", got)
	}
}

func TestTranscriptDisabled(t *testing.T) {
	if tr := NewTranscript(""); tr != nil {
		t.Fatal("empty path should disable the transcript")
	}
	var tr *Transcript
	// Must be safe to call through a nil transcript.
	tr.Event("channel-1", "join", "42 entered as human")
}
