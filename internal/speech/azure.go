package speech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/normanking/virtualfriend/internal/lipsync"
)

// outputFormat is the audio encoding requested from the service. The renderer
// plays it straight from a base64 data URL, so mp3 keeps the payload small.
const outputFormat = "audio-16khz-128kbitrate-mono-mp3"

// maxVisemeEvents bounds the viseme buffer for one utterance. Utterances are
// short (a few sentences), so overflow indicates a runaway turn; extra events
// are dropped rather than growing without limit.
const maxVisemeEvents = 4096

// AzureOption configures the Azure synthesizer.
type AzureOption func(*AzureSynthesizer)

// WithEndpoint overrides the websocket endpoint, used in tests.
func WithEndpoint(url string) AzureOption {
	return func(s *AzureSynthesizer) { s.endpoint = url }
}

// WithTurnTimeout bounds how long one synthesis turn may take.
func WithTurnTimeout(d time.Duration) AzureOption {
	return func(s *AzureSynthesizer) { s.turnTimeout = d }
}

// AzureSynthesizer drives the Azure Speech websocket synthesis protocol. It
// requests viseme metadata alongside the audio stream, so one turn yields
// both the encoded audio and the event stream the timeline builder needs.
type AzureSynthesizer struct {
	key         string
	endpoint    string
	turnTimeout time.Duration
	dialer      *websocket.Dialer
	log         zerolog.Logger
}

// NewAzureSynthesizer creates a synthesizer for the given subscription key
// and region.
func NewAzureSynthesizer(key, region string, log zerolog.Logger, opts ...AzureOption) *AzureSynthesizer {
	s := &AzureSynthesizer{
		key:         key,
		endpoint:    fmt.Sprintf("wss://%s.tts.speech.microsoft.com/cognitiveservices/websocket/v1", region),
		turnTimeout: 30 * time.Second,
		dialer:      websocket.DefaultDialer,
		log:         log.With().Str("component", "speech").Str("provider", "azure").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider identifier.
func (s *AzureSynthesizer) Name() string {
	return "azure"
}

// turnResult is the single settled outcome of one synthesis turn.
type turnResult struct {
	result *Result
	err    error
}

// Synthesize runs one synthesis turn over a fresh websocket connection. The
// turn settles exactly once: on turn.end with the accumulated audio and
// viseme events, or with the first error encountered.
func (s *AzureSynthesizer) Synthesize(ctx context.Context, text, voice string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	header := map[string][]string{"Ocp-Apim-Subscription-Key": {s.key}}
	conn, _, err := s.dialer.DialContext(ctx, s.endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("dial synthesis endpoint: %w", err)
	}
	defer conn.Close()

	requestID := strings.ReplaceAll(uuid.NewString(), "-", "")

	if err := s.sendTurn(conn, requestID, text, voice); err != nil {
		return nil, err
	}

	done := make(chan turnResult, 1)
	go s.collectTurn(conn, requestID, done)

	select {
	case <-ctx.Done():
		// Unblocks the read loop; its result is discarded.
		conn.Close()
		return nil, fmt.Errorf("synthesis turn: %w", ctx.Err())
	case settled := <-done:
		return settled.result, settled.err
	}
}

// sendTurn writes the three outbound messages of a synthesis turn:
// speech.config, synthesis.context (enabling viseme metadata) and the SSML.
func (s *AzureSynthesizer) sendTurn(conn *websocket.Conn, requestID, text, voice string) error {
	speechConfig := `{"context":{"system":{"name":"virtualfriend","version":"1.0.0"}}}`
	if err := conn.WriteMessage(websocket.TextMessage,
		encodeTextMessage("speech.config", requestID, "application/json", speechConfig)); err != nil {
		return fmt.Errorf("send speech.config: %w", err)
	}

	synthesisContext := fmt.Sprintf(
		`{"synthesis":{"audio":{"metadataOptions":{"visemeEnabled":true,"sentenceBoundaryEnabled":false,"wordBoundaryEnabled":false},"outputFormat":%q}}}`,
		outputFormat)
	if err := conn.WriteMessage(websocket.TextMessage,
		encodeTextMessage("synthesis.context", requestID, "application/json", synthesisContext)); err != nil {
		return fmt.Errorf("send synthesis.context: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage,
		encodeTextMessage("ssml", requestID, "application/ssml+xml", BuildSSML(text, voice))); err != nil {
		return fmt.Errorf("send ssml: %w", err)
	}

	return nil
}

// collectTurn reads service messages until turn.end, accumulating audio
// frames and viseme events. It settles the done channel exactly once.
func (s *AzureSynthesizer) collectTurn(conn *websocket.Conn, requestID string, done chan<- turnResult) {
	var audio []byte
	visemes := make([]lipsync.Event, 0, 128)
	dropped := 0

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			done <- turnResult{err: fmt.Errorf("read synthesis stream: %w", err)}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			payload, err := decodeBinaryMessage(data)
			if err != nil {
				done <- turnResult{err: err}
				return
			}
			audio = append(audio, payload...)

		case websocket.TextMessage:
			path, body, err := decodeTextMessage(data)
			if err != nil {
				done <- turnResult{err: err}
				return
			}

			switch path {
			case "audio.metadata":
				events, err := decodeVisemeMetadata(body)
				if err != nil {
					s.log.Warn().Err(err).Msg("unparseable audio.metadata frame, skipping")
					continue
				}
				for _, ev := range events {
					if len(visemes) >= maxVisemeEvents {
						dropped++
						continue
					}
					visemes = append(visemes, ev)
				}

			case "turn.end":
				if dropped > 0 {
					s.log.Warn().Int("dropped", dropped).Msg("viseme buffer overflow during turn")
				}
				if len(audio) == 0 {
					done <- turnResult{err: ErrNoAudio}
					return
				}
				s.log.Debug().
					Str("requestId", requestID).
					Int("audioBytes", len(audio)).
					Int("visemes", len(visemes)).
					Msg("synthesis turn complete")
				done <- turnResult{result: &Result{Audio: audio, Visemes: visemes}}
				return
			}
			// turn.start and response frames carry nothing we need.
		}
	}
}

// BuildSSML wraps text in the minimal SSML envelope the service expects.
// Text is XML-escaped since completions routinely contain & and <.
func BuildSSML(text, voice string) string {
	return fmt.Sprintf(
		`<speak version='1.0' xml:lang='en-US'><voice xml:lang='en-US' name='%s'>%s</voice></speak>`,
		voice, escapeXML(text))
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}
