// introgen synthesizes the fixed introduction line once and writes the
// audio and lip-sync artifacts the backend serves for empty chat messages.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/normanking/virtualfriend/internal/artifact"
	"github.com/normanking/virtualfriend/internal/config"
	"github.com/normanking/virtualfriend/internal/lipsync"
	"github.com/normanking/virtualfriend/internal/logging"
	"github.com/normanking/virtualfriend/internal/speech"
)

const introText = "Hey there! I'm your 3D AI buddy. Wanna chat?"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "introgen:", err)
		os.Exit(1)
	}
}

func run() error {
	voice := flag.String("voice", speech.VoiceFemale, "synthesis voice")
	timeout := flag.Duration("timeout", 30*time.Second, "synthesis timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Speech.AzureKey == "" || cfg.Speech.AzureRegion == "" {
		return fmt.Errorf("AZURE_SPEECH_KEY and AZURE_REGION are required")
	}

	log, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Dir:     cfg.Log.Dir,
		Console: cfg.Log.Console,
	})
	if err != nil {
		return err
	}

	store, err := artifact.NewStore(cfg.Speech.AudioDir, log)
	if err != nil {
		return fmt.Errorf("open audio store: %w", err)
	}

	synth := speech.NewAzureSynthesizer(cfg.Speech.AzureKey, cfg.Speech.AzureRegion, log,
		speech.WithTurnTimeout(*timeout),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := synth.Synthesize(ctx, introText, *voice)
	if err != nil {
		return fmt.Errorf("synthesize intro: %w", err)
	}

	builder := lipsync.NewBuilder()
	for _, ev := range result.Visemes {
		builder.Add(ev)
	}
	tl := builder.Build("intro_0.wav")

	if err := store.WriteIntro(result.Audio, tl); err != nil {
		return err
	}

	log.Info().
		Int("audioBytes", len(result.Audio)).
		Int("cues", len(tl.MouthCues)).
		Float64("duration", tl.Duration()).
		Msg("intro artifacts written")
	return nil
}
