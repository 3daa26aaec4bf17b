package speech

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/normanking/virtualfriend/internal/lipsync"
)

// The synthesis websocket frames text messages as MIME-style headers, a blank
// line, then the body. Binary frames carry a big-endian uint16 header length,
// the headers, then the audio payload.

const headerSeparator = "\r\n\r\n"

// ticksPerSecond converts the service's 100ns offset ticks to seconds.
const ticksPerSecond = 10_000_000

// encodeTextMessage builds an outbound text frame for the given path.
func encodeTextMessage(path, requestID, contentType, body string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Path: %s\r\n", path)
	fmt.Fprintf(&sb, "X-RequestId: %s\r\n", requestID)
	fmt.Fprintf(&sb, "X-Timestamp: %s\r\n", time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	fmt.Fprintf(&sb, "Content-Type: %s", contentType)
	sb.WriteString(headerSeparator)
	sb.WriteString(body)
	return []byte(sb.String())
}

// decodeTextMessage splits an inbound text frame into its Path header value
// and body.
func decodeTextMessage(data []byte) (path, body string, err error) {
	raw := string(data)
	idx := strings.Index(raw, headerSeparator)
	if idx < 0 {
		return "", "", fmt.Errorf("text frame without header separator")
	}

	for _, line := range strings.Split(raw[:idx], "\r\n") {
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Path") {
			path = strings.TrimSpace(value)
		}
	}
	if path == "" {
		return "", "", fmt.Errorf("text frame without Path header")
	}

	return path, raw[idx+len(headerSeparator):], nil
}

// decodeBinaryMessage strips the length-prefixed header block off an audio
// frame and returns the audio payload.
func decodeBinaryMessage(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("binary frame too short: %d bytes", len(data))
	}
	headerLen := int(binary.BigEndian.Uint16(data[:2]))
	if 2+headerLen > len(data) {
		return nil, fmt.Errorf("binary frame header length %d exceeds frame size %d", headerLen, len(data))
	}
	return data[2+headerLen:], nil
}

// metadataFrame is the audio.metadata body shape. Offsets arrive in ticks.
type metadataFrame struct {
	Metadata []struct {
		Type string `json:"Type"`
		Data struct {
			Offset   int64 `json:"Offset"`
			VisemeID int   `json:"VisemeId"`
		} `json:"Data"`
	} `json:"Metadata"`
}

// decodeVisemeMetadata extracts viseme events from an audio.metadata body,
// converting tick offsets to seconds. Non-viseme metadata entries are ignored.
func decodeVisemeMetadata(body string) ([]lipsync.Event, error) {
	var frame metadataFrame
	if err := json.Unmarshal([]byte(body), &frame); err != nil {
		return nil, fmt.Errorf("decode audio.metadata: %w", err)
	}

	events := make([]lipsync.Event, 0, len(frame.Metadata))
	for _, entry := range frame.Metadata {
		if entry.Type != "Viseme" {
			continue
		}
		events = append(events, lipsync.Event{
			Offset:   float64(entry.Data.Offset) / ticksPerSecond,
			VisemeID: entry.Data.VisemeID,
		})
	}
	return events, nil
}
