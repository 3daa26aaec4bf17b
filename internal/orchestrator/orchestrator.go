// Package orchestrator drives speech synthesis for a scripted reply and
// attaches the resulting audio and lip-sync timelines to its segments.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/virtualfriend/internal/artifact"
	"github.com/normanking/virtualfriend/internal/lipsync"
	"github.com/normanking/virtualfriend/internal/observability"
	"github.com/normanking/virtualfriend/internal/script"
	"github.com/normanking/virtualfriend/internal/speech"
)

// Orchestrator enriches reply segments one at a time. Segments are processed
// sequentially: artifact slot names are index-derived and a segment must be
// complete before the next one starts.
type Orchestrator struct {
	synth speech.Synthesizer
	store *artifact.Store
	log   zerolog.Logger

	// Metrics, when set, records whole-reply synthesis time and provider
	// failures.
	Metrics *observability.Metrics
}

// New wires an Orchestrator.
func New(synth speech.Synthesizer, store *artifact.Store, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		synth: synth,
		store: store,
		log:   log.With().Str("component", "orchestrator").Logger(),
	}
}

// EnrichReply synthesizes every segment in order with the voice selected by
// the gender flag. A synthesis failure on any segment aborts the whole reply;
// no partially enriched reply is ever returned. An unreadable audio artifact
// only degrades that segment's audio to null.
func (o *Orchestrator) EnrichReply(ctx context.Context, segments []script.Segment, gender string) ([]script.Segment, error) {
	voice := speech.VoiceForGender(gender)
	enriched := make([]script.Segment, 0, len(segments))
	start := time.Now()

	for i, seg := range segments {
		result, err := o.synth.Synthesize(ctx, seg.Text, voice)
		if err != nil {
			if o.Metrics != nil {
				o.Metrics.ProviderErrors.WithLabelValues(o.synth.Name()).Inc()
			}
			return nil, fmt.Errorf("synthesize segment %d: %w", i, err)
		}

		path := o.store.MessagePath(i)
		if err := o.store.WriteAudio(path, result.Audio); err != nil {
			return nil, fmt.Errorf("persist segment %d audio: %w", i, err)
		}

		builder := lipsync.NewBuilder()
		for _, ev := range result.Visemes {
			builder.Add(ev)
		}
		seg.Lipsync = builder.Build(path)
		seg.Audio = o.store.ReadBase64(path)

		o.log.Info().
			Int("segment", i).
			Str("voice", voice).
			Int("cues", len(seg.Lipsync.MouthCues)).
			Float64("duration", seg.Lipsync.Duration()).
			Msg("segment enriched")

		enriched = append(enriched, seg)
	}

	if o.Metrics != nil {
		o.Metrics.ObserveSynthesis(time.Since(start))
	}
	return enriched, nil
}
