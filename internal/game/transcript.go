package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Transcript appends notable session events to a plain-text file so
// operators can review what happened in a channel. Nothing is ever read
// back. A nil Transcript disables writing.
type Transcript struct {
	path string
	mu   sync.Mutex
}

// NewTranscript returns a transcript writing to path, or nil when path is
// empty.
func NewTranscript(path string) *Transcript {
	if path == "" {
		return nil
	}
	return &Transcript{path: path}
}

// Event appends one line. Failures are logged and swallowed; the game never
// stalls on the audit trail.
func (t *Transcript) Event(channelID, kind, detail string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.append(channelID, kind, detail); err != nil {
		log.Error().Err(err).Str("channel", channelID).Msg("transcript write failed")
	}
}

func (t *Transcript) append(channelID, kind, detail string) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("create transcript directory: %w", err)
	}
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	line := fmt.Sprintf("%s %s [%s] %s\n", time.Now().UTC().Format(time.RFC3339), channelID, kind, detail)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
