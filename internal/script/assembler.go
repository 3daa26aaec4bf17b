package script

import (
	"encoding/json"
	"regexp"

	"github.com/rs/zerolog"
)

// fencedArray matches a ```json fenced block containing a JSON array.
var fencedArray = regexp.MustCompile("(?s)```json\\s*(\\[.*?\\])\\s*```")

// fencedObject matches a ```json fenced block containing a bare object, which
// some completions produce instead of a single-element array.
var fencedObject = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// Assembler extracts reply segments from model completions.
type Assembler struct {
	log zerolog.Logger
}

// NewAssembler returns an Assembler logging under the given logger.
func NewAssembler(log zerolog.Logger) *Assembler {
	return &Assembler{log: log.With().Str("component", "script").Logger()}
}

// Parse extracts the fenced JSON array from a completion and decodes it into
// segments. A bare fenced object is coerced into a single-element reply.
// Malformed completions never fail: they collapse to the fixed fallback
// segment. The prompt asks for at most three segments but longer arrays are
// passed through as-is.
func (a *Assembler) Parse(completion string) []Segment {
	raw, ok := a.extract(completion)
	if !ok {
		a.log.Warn().Msg("no fenced JSON block in completion, using fallback")
		return []Segment{FallbackSegment()}
	}

	var segments []Segment
	if err := json.Unmarshal(raw, &segments); err != nil {
		a.log.Warn().Err(err).Msg("completion block did not decode, using fallback")
		return []Segment{FallbackSegment()}
	}
	if len(segments) == 0 {
		a.log.Warn().Msg("completion decoded to an empty array, using fallback")
		return []Segment{FallbackSegment()}
	}

	a.log.Debug().Int("segments", len(segments)).Msg("parsed reply script")
	return segments
}

// extract pulls the JSON payload out of the completion, wrapping a bare
// object into an array so both shapes decode the same way.
func (a *Assembler) extract(completion string) (json.RawMessage, bool) {
	if m := fencedArray.FindStringSubmatch(completion); m != nil {
		return json.RawMessage(m[1]), true
	}
	if m := fencedObject.FindStringSubmatch(completion); m != nil {
		return json.RawMessage("[" + m[1] + "]"), true
	}
	return nil, false
}
