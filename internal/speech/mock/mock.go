// Package mock provides a scripted Synthesizer for tests.
package mock

import (
	"context"
	"sync"

	"github.com/normanking/virtualfriend/internal/lipsync"
	"github.com/normanking/virtualfriend/internal/speech"
)

// Synthesizer returns canned results in call order, or a fixed error. The
// zero value answers every call with a small silent utterance.
type Synthesizer struct {
	mu sync.Mutex

	// Results are returned one per call; the last one repeats once exhausted.
	Results []*speech.Result
	// Err, when set, fails every call.
	Err error

	// Calls records the text/voice pairs in the order they were synthesized.
	Calls []Call
}

// Call is one recorded Synthesize invocation.
type Call struct {
	Text  string
	Voice string
}

// Name identifies the mock provider.
func (m *Synthesizer) Name() string { return "mock" }

// Synthesize records the call and plays back the scripted result.
func (m *Synthesizer) Synthesize(_ context.Context, text, voice string) (*speech.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, Call{Text: text, Voice: voice})

	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.Results) == 0 {
		return &speech.Result{
			Audio:   []byte("mock-audio"),
			Visemes: []lipsync.Event{{Offset: 0, VisemeID: 0}},
		}, nil
	}

	idx := len(m.Calls) - 1
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	return m.Results[idx], nil
}

// CallCount returns how many times Synthesize ran.
func (m *Synthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
