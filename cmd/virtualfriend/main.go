// Virtual Friend backend: turns chat messages into scripted avatar replies
// with synthesized speech and mouth-cue timelines.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/normanking/virtualfriend/internal/artifact"
	"github.com/normanking/virtualfriend/internal/config"
	"github.com/normanking/virtualfriend/internal/httpapi"
	"github.com/normanking/virtualfriend/internal/llm"
	"github.com/normanking/virtualfriend/internal/logging"
	"github.com/normanking/virtualfriend/internal/model"
	"github.com/normanking/virtualfriend/internal/observability"
	"github.com/normanking/virtualfriend/internal/orchestrator"
	"github.com/normanking/virtualfriend/internal/player"
	"github.com/normanking/virtualfriend/internal/script"
	"github.com/normanking/virtualfriend/internal/speech"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "virtualfriend:", err)
		os.Exit(1)
	}
}

func run() error {
	// Credentials live in .env during development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Dir:     cfg.Log.Dir,
		Console: cfg.Log.Console,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("virtualfriend")

	store, err := artifact.NewStore(cfg.Speech.AudioDir, log)
	if err != nil {
		return fmt.Errorf("open audio store: %w", err)
	}

	intro, err := store.IntroSegment()
	if err != nil {
		log.Warn().Err(err).Msg("intro artifacts unavailable, serving intro without audio")
		intro = script.Segment{
			Text:             "Hey there! I'm your 3D AI buddy. Wanna chat?",
			FacialExpression: script.ExpressionSmile,
			Animation:        script.AnimationTalkingOne,
		}
	}

	if cfg.Avatar.ModelPath != "" {
		targets, err := model.LoadMorphTargets(cfg.Avatar.ModelPath)
		if err != nil {
			return fmt.Errorf("inspect avatar model: %w", err)
		}
		if err := targets.Validate(player.MorphNames[:]); err != nil {
			return fmt.Errorf("avatar model: %w", err)
		}
		log.Info().
			Str("path", cfg.Avatar.ModelPath).
			Int("morphTargets", len(targets.Names())).
			Msg("avatar model validated")
	}

	presets := player.NewPresetStore()
	if cfg.Avatar.PresetsPath != "" {
		if err := presets.LoadFile(cfg.Avatar.PresetsPath); err != nil {
			return fmt.Errorf("load expression presets: %w", err)
		}
		if err := presets.Watch(ctx, cfg.Avatar.PresetsPath, log); err != nil {
			return fmt.Errorf("watch expression presets: %w", err)
		}
	}

	completer := llm.NewGeminiClient(cfg.LLM.APIKey, log,
		llm.WithModel(cfg.LLM.Model),
		llm.WithHTTPTimeout(cfg.LLM.Timeout),
	)
	synth := speech.NewAzureSynthesizer(cfg.Speech.AzureKey, cfg.Speech.AzureRegion, log,
		speech.WithTurnTimeout(cfg.Speech.TurnTimeout),
	)
	enricher := orchestrator.New(synth, store, log)
	enricher.Metrics = metrics

	api := httpapi.New(completer, script.NewAssembler(log), enricher, intro, metrics, log)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("virtual friend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
