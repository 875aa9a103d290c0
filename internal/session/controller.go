package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/KunalKatariya/satori-cli/internal/audio"
	"github.com/KunalKatariya/satori-cli/internal/telemetry"
	"github.com/KunalKatariya/satori-cli/internal/transcribe"
	"github.com/KunalKatariya/satori-cli/internal/translate"
)

// ErrNoSource is returned by Run when no audio source was configured.
var ErrNoSource = errors.New("session: no audio source configured")

const (
	// notReadyBackoff paces polling while the source has no chunk yet.
	notReadyBackoff = 50 * time.Millisecond
	// errorBackoff slows the loop down after a failed iteration.
	errorBackoff = 500 * time.Millisecond
	// statusMaxLen bounds error text on the status line.
	statusMaxLen = 80

	timestampLayout = "15:04:05"
)

// Flush reasons reported to telemetry.
const (
	flushMaxDuration = "max_duration"
	flushSilence     = "silence"
	flushSafetyCap   = "safety_cap"
	flushDrain       = "drain"
)

// Options wires the controller's collaborators. Source, Engine, and Sink are
// required; the rest are optional.
type Options struct {
	Source audio.Source
	Engine transcribe.Engine
	// Translator enables the translation stream when non-nil.
	Translator *translate.Translator
	Sink       Sink
	Recorder   *telemetry.Recorder
	// Metadata is attached to the session's telemetry.
	Metadata map[string]string
	Logger   *slog.Logger
	// Clock and Sleep are injectable for deterministic tests.
	Clock func() time.Time
	Sleep func(time.Duration)
}

// Controller owns the capture loop: poll, classify, buffer, flush,
// transcribe, translate, display. All phrase state belongs to the loop
// goroutine; other goroutines interact only through Reset and Stop.
type Controller struct {
	cfg        Config
	source     audio.Source
	engine     transcribe.Engine
	translator *translate.Translator
	sink       Sink
	recorder   *telemetry.Recorder
	metadata   map[string]string
	log        *slog.Logger
	now        func() time.Time
	sleep      func(time.Duration)

	stopFlag  atomic.Bool
	resetFlag atomic.Bool

	// Loop-owned state. Never touched outside Run.
	buffer     []float32
	duration   time.Duration
	inPhrase   bool
	lastSpeech time.Time
	lastMarker time.Time
	metrics    *telemetry.SessionMetrics
}

// NewController validates the config and builds a controller.
func NewController(cfg Config, opts Options) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Source == nil {
		return nil, ErrNoSource
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("session: no transcription engine configured")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("session: no presentation sink configured")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Controller{
		cfg:        cfg,
		source:     opts.Source,
		engine:     opts.Engine,
		translator: opts.Translator,
		sink:       opts.Sink,
		recorder:   opts.Recorder,
		metadata:   opts.Metadata,
		log:        logger.With("component", "session.Controller"),
		now:        clock,
		sleep:      sleep,
	}, nil
}

// Reset asks the loop to clear phrase state, display accumulators, and the
// timestamp marker. Applied between iterations. Safe from any goroutine.
func (c *Controller) Reset() {
	c.resetFlag.Store(true)
}

// Stop asks the loop to exit after the current iteration completes. Safe
// from any goroutine.
func (c *Controller) Stop() {
	c.stopFlag.Store(true)
}

// Run drives the session until Stop, ctx cancellation, or source
// exhaustion. Engine and source failures are surfaced on the status line and
// never terminate the loop. The source is stopped on every exit path.
func (c *Controller) Run(ctx context.Context) error {
	if c.source == nil {
		return ErrNoSource
	}
	if err := c.source.Start(ctx); err != nil {
		return fmt.Errorf("session: start audio source: %w", err)
	}
	defer c.source.Stop()

	meta := map[string]string{
		"translate": fmt.Sprintf("%t", c.translator != nil),
	}
	for k, v := range c.metadata {
		meta[k] = v
	}
	c.metrics = c.recorder.StartSession(meta)
	var runErr error
	defer func() { c.metrics.Finish(runErr) }()

	c.clearPhrase()
	c.lastMarker = c.now()
	c.sink.OnStatus("listening")
	c.log.Info("session loop started",
		"chunk_duration", c.cfg.ChunkDuration,
		"energy_threshold", c.cfg.EnergyThreshold)

	for {
		if c.stopFlag.Load() || ctx.Err() != nil {
			c.log.Info("session loop stopping")
			return nil
		}
		if c.resetFlag.CompareAndSwap(true, false) {
			c.applyReset()
		}

		chunk, err := c.source.Poll()
		switch {
		case errors.Is(err, audio.ErrNotReady):
			c.sleep(notReadyBackoff)
			continue
		case errors.Is(err, io.EOF):
			c.drain(ctx)
			c.log.Info("audio source exhausted")
			return nil
		case err != nil:
			c.reportError("audio", err)
			c.sleep(errorBackoff)
			continue
		}

		now := c.now()
		speech := energy(chunk) > c.cfg.EnergyThreshold
		c.metrics.RecordChunk(speech)

		if speech {
			c.lastSpeech = now
			if !c.inPhrase {
				c.inPhrase = true
				c.sink.OnStatus("recording")
			}
			c.append(chunk)
		} else {
			c.sink.OnStatus("silence")
			// Keep natural pauses inside an utterance. Silence before
			// any speech is discarded.
			if c.inPhrase && c.duration < c.cfg.MaxPhraseDuration {
				c.append(chunk)
			}
		}

		if reason, ok := c.flushDue(now); ok {
			c.flush(ctx, reason, now)
		}
	}
}

func (c *Controller) append(chunk []float32) {
	c.buffer = append(c.buffer, chunk...)
	// Duration advances by the nominal chunk span, not the sample count,
	// so short tail chunks cannot skew the flush timing.
	c.duration += c.cfg.ChunkDuration
}

// flushDue evaluates the flush conditions in fixed order: real-time cap,
// natural silence boundary, then the safety cap. At most one fires per
// cycle, and only once more than a single chunk has accumulated.
func (c *Controller) flushDue(now time.Time) (string, bool) {
	if !c.inPhrase || c.duration <= c.cfg.ChunkDuration {
		return "", false
	}
	switch {
	case c.duration >= c.cfg.MaxPhraseDuration:
		return flushMaxDuration, true
	case !c.lastSpeech.IsZero() && now.Sub(c.lastSpeech) >= c.cfg.PhraseTimeout:
		return flushSilence, true
	case c.duration >= c.cfg.SafetyMaxDuration:
		return flushSafetyCap, true
	default:
		return "", false
	}
}

// flush sends the accumulated phrase to the engine and routes the result.
// Phrase state resets before the engine call, win or lose.
func (c *Controller) flush(ctx context.Context, reason string, now time.Time) {
	samples := c.buffer
	seconds := c.duration.Seconds()
	c.clearPhrase()

	c.sink.OnStatus(fmt.Sprintf("processing %.1fs audio", seconds))
	c.metrics.RecordPhrase(reason, len(samples))

	text, err := c.engine.Transcribe(ctx, samples, c.cfg.SampleRate)
	if err != nil {
		c.reportError("transcribe", err)
		c.sleep(errorBackoff)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		c.sink.OnStatus("listening")
		return
	}

	newMarker := now.Sub(c.lastMarker) >= c.cfg.TimestampInterval
	marker := ""
	if newMarker {
		marker = "\n\n[" + now.Format(timestampLayout) + "]\n"
		c.lastMarker = now
	}

	c.emit(ctx, text, marker, newMarker)
	c.sink.OnStatus("listening")
}

// emit forwards the transcription and, when enabled, its translation. The
// translation reuses the transcription's marker decision.
func (c *Controller) emit(ctx context.Context, text, marker string, newMarker bool) {
	if newMarker {
		c.sink.OnTranscription(marker+text, true)
	} else {
		c.sink.OnTranscription(" "+text, false)
	}
	c.metrics.RecordTranscript(text)

	if c.translator == nil {
		return
	}
	translated, err := c.translator.Translate(ctx, text)
	if err != nil {
		// Transcription already went out; only the translation is lost.
		c.reportError("translate", err)
		return
	}
	if translated == "" {
		return
	}
	if newMarker {
		c.sink.OnTranslation(marker+translated, true)
	} else {
		c.sink.OnTranslation(" "+translated, false)
	}
	c.metrics.RecordTranslation(translated)
}

// drain flushes whatever audio is still buffered when the source ends, so
// file-fed sessions do not lose their tail.
func (c *Controller) drain(ctx context.Context) {
	if !c.inPhrase || len(c.buffer) == 0 {
		return
	}
	c.flush(ctx, flushDrain, c.now())
}

func (c *Controller) applyReset() {
	c.clearPhrase()
	c.lastMarker = c.now()
	c.sink.OnClear()
	c.sink.OnStatus("listening")
	c.log.Info("session state reset")
}

func (c *Controller) clearPhrase() {
	c.buffer = nil
	c.duration = 0
	c.inPhrase = false
	c.lastSpeech = time.Time{}
}

func (c *Controller) reportError(stage string, err error) {
	c.metrics.RecordError(stage, err)
	c.sink.OnStatus(truncateStatus(stage + " error: " + err.Error()))
}

func truncateStatus(s string) string {
	runes := []rune(s)
	if len(runes) <= statusMaxLen {
		return s
	}
	return string(runes[:statusMaxLen-3]) + "..."
}
