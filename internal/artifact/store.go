// Package artifact persists synthesized audio and the pre-baked intro
// artifacts, and packages audio files for transport.
package artifact

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/normanking/virtualfriend/internal/lipsync"
	"github.com/normanking/virtualfriend/internal/script"
)

// Fixed filenames of the pre-generated intro pair.
const (
	introAudioFile   = "intro_0.wav"
	introLipsyncFile = "intro_0.json"
)

// Store owns the audio artifact directory. Synthesized audio is written to
// indexed slots and read back for base64 packaging, matching the on-disk
// layout the intro artifacts use.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore creates the artifact directory if needed.
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &Store{dir: dir, log: log.With().Str("component", "artifact").Logger()}, nil
}

// MessagePath returns the slot filename for the reply segment at index i.
func (s *Store) MessagePath(i int) string {
	return filepath.Join(s.dir, fmt.Sprintf("message_%d.mp3", i))
}

// WriteAudio persists one synthesized audio artifact.
func (s *Store) WriteAudio(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write audio artifact: %w", err)
	}
	s.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("audio artifact written")
	return nil
}

// ReadBase64 reads an audio artifact back and encodes it for transport. An
// unreadable artifact degrades to nil (the wire's null audio) instead of
// failing the reply.
func (s *Store) ReadBase64(path string) *string {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("audio artifact unreadable, degrading to silent segment")
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return &encoded
}

// IntroSegment loads the fixed introductory reply served when the user sends
// no message. The lipsync file holds a timeline in the wire format.
func (s *Store) IntroSegment() (script.Segment, error) {
	seg := script.Segment{
		Text:             "Hey there! I'm your 3D AI buddy. Wanna chat?",
		FacialExpression: script.ExpressionSmile,
		Animation:        script.AnimationTalkingOne,
	}

	seg.Audio = s.ReadBase64(filepath.Join(s.dir, introAudioFile))

	raw, err := os.ReadFile(filepath.Join(s.dir, introLipsyncFile))
	if err != nil {
		return seg, fmt.Errorf("read intro lipsync: %w", err)
	}
	var tl lipsync.Timeline
	if err := json.Unmarshal(raw, &tl); err != nil {
		return seg, fmt.Errorf("decode intro lipsync: %w", err)
	}
	seg.Lipsync = &tl

	return seg, nil
}

// WriteIntro persists a freshly generated intro pair. Used by the introgen
// tool, never at serving time.
func (s *Store) WriteIntro(audio []byte, tl *lipsync.Timeline) error {
	if err := s.WriteAudio(filepath.Join(s.dir, introAudioFile), audio); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return fmt.Errorf("encode intro lipsync: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, introLipsyncFile), raw, 0o644); err != nil {
		return fmt.Errorf("write intro lipsync: %w", err)
	}
	return nil
}
