package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/KunalKatariya/satori-cli/internal/appinfo"
	"github.com/KunalKatariya/satori-cli/internal/audio"
	"github.com/KunalKatariya/satori-cli/internal/config"
	"github.com/KunalKatariya/satori-cli/internal/models"
	"github.com/KunalKatariya/satori-cli/internal/session"
	"github.com/KunalKatariya/satori-cli/internal/telemetry"
	"github.com/KunalKatariya/satori-cli/internal/transcribe"
	"github.com/KunalKatariya/satori-cli/internal/translate"
	"github.com/KunalKatariya/satori-cli/internal/ui"
)

func runTranslate(args []string) error {
	fs := flag.NewFlagSet("translate", flag.ExitOnError)
	var (
		device      = fs.String("device", "", "capture device name (substring match)")
		loopback    = fs.Bool("loopback", false, "prefer a system-loopback device over the microphone")
		model       = fs.String("model", "", "whisper model variant (tiny, base, small, medium, large)")
		language    = fs.String("language", "", "spoken language hint for transcription")
		translateTo = fs.String("translate-to", "", "target language for translation (en, ja, hi); empty disables")
		stub        = fs.Bool("stub", false, "use the stub engine instead of a real model")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Loader{}.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyStringFlag(&cfg.ModelVariant, *model)
	applyStringFlag(&cfg.Language, *language)
	applyStringFlag(&cfg.TranslateTo, *translateTo)
	applyStringFlag(&cfg.Device, *device)
	if *loopback {
		cfg.Loopback = true
	}
	if *stub {
		cfg.UseStubEngine = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFile, err := openSessionLog(cfg.LogsDir())
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(cfg.LogLevel, logFile)
	logger.Info("starting session",
		"model_variant", cfg.ModelVariant,
		"language", cfg.Language,
		"translate_to", cfg.TranslateTo,
		"data_dir", cfg.DataDir,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := audio.Detect()
	if err != nil {
		return err
	}
	dev, err := pickDevice(ctx, backend, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Capturing from %q via %s. Type r+Enter to reset, q+Enter or Ctrl-C to quit.\n",
		deviceLabel(dev), backend.Name())

	manager, err := models.NewManager(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("init model manager: %w", err)
	}
	engine, engineErr := transcribe.New(ctx, cfg, manager, logger)
	if engineErr != nil {
		fmt.Fprintf(os.Stderr, "warning: falling back to stub transcription: %v\n", engineErr)
	}
	defer engine.Close()

	var translator *translate.Translator
	if cfg.TranslateTo != "" {
		translator = translate.New(cfg.TranslateTo, func() (translate.Provider, error) {
			if cfg.UseStubEngine {
				return translate.StubProvider{}, nil
			}
			return translate.NewOpenAIProvider(cfg.OpenAIAPIKey, "")
		}, logger)
	}

	recorder := telemetry.NewRecorder(logger)
	source := audio.NewCapture(backend, dev, audio.Format{
		SampleRate:    cfg.SampleRate,
		Channels:      cfg.Channels,
		ChunkDuration: secondsToDuration(cfg.ChunkDurationS),
	}, logger)
	console := ui.NewConsole(ui.WithTranslation(cfg.TranslateTo != ""))

	controller, err := session.NewController(sessionConfig(cfg), session.Options{
		Source:     source,
		Engine:     engine,
		Translator: translator,
		Sink:       console,
		Recorder:   recorder,
		Metadata:   appinfo.TranscriptMetadata(cfg.ModelVariant, cfg.Language),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	go watchStdin(controller, stop)

	if err := controller.Run(ctx); err != nil {
		return err
	}

	snapshot := recorder.Snapshot()
	logger.Info("telemetry totals",
		"sessions", snapshot.TotalSessions,
		"chunks", snapshot.TotalChunks,
		"speech_chunks", snapshot.TotalSpeechChunks,
		"phrases", snapshot.TotalPhrases,
		"transcripts", snapshot.TotalTranscripts,
		"translations", snapshot.TotalTranslations,
		"errors", snapshot.TotalErrors,
	)
	fmt.Printf("\nSession finished: %d phrases, %d transcripts, %d translations.\n",
		snapshot.TotalPhrases, snapshot.TotalTranscripts, snapshot.TotalTranslations)
	return nil
}

// watchStdin handles the r (reset) and q (quit) commands while the loop
// runs.
func watchStdin(controller *session.Controller, cancel func()) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "r":
			controller.Reset()
		case "q":
			controller.Stop()
			cancel()
			return
		}
	}
}

// pickDevice resolves the capture device: explicit loopback request first,
// then a configured name, then the backend default.
func pickDevice(ctx context.Context, backend audio.Backend, cfg config.Config) (audio.Device, error) {
	devices, err := backend.ListDevices(ctx)
	if err != nil {
		return audio.Device{}, fmt.Errorf("enumerate devices: %w", err)
	}
	if cfg.Loopback {
		for _, dev := range devices {
			if dev.Loopback {
				return dev, nil
			}
		}
		fmt.Fprintln(os.Stderr, "warning: no loopback device found, using default input")
	}
	if cfg.Device != "" {
		needle := strings.ToLower(cfg.Device)
		for _, dev := range devices {
			if strings.Contains(strings.ToLower(dev.Name), needle) {
				return dev, nil
			}
		}
		return audio.Device{}, fmt.Errorf("no capture device matching %q (run `satori devices`)", cfg.Device)
	}
	return audio.Device{}, nil
}

func deviceLabel(dev audio.Device) string {
	if dev.Name == "" {
		return "default input"
	}
	return dev.Name
}

func sessionConfig(cfg config.Config) session.Config {
	return session.Config{
		SampleRate:        cfg.SampleRate,
		ChunkDuration:     secondsToDuration(cfg.ChunkDurationS),
		EnergyThreshold:   cfg.EnergyThreshold,
		PhraseTimeout:     secondsToDuration(cfg.PhraseTimeoutS),
		MaxPhraseDuration: secondsToDuration(cfg.MaxPhraseDurationS),
		SafetyMaxDuration: secondsToDuration(cfg.SafetyMaxS),
		TimestampInterval: secondsToDuration(cfg.TimestampIntervalS),
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func applyStringFlag(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}
