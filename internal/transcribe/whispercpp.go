package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// runTimeout caps a single whisper-cli invocation. Phrases topping out at a
// few seconds of audio should decode far faster than this.
const runTimeout = 30 * time.Second

// binaryCandidates are probed in order when no explicit binary is configured.
var binaryCandidates = []string{
	"whisper-cli",
	"whisper-cpp",
	"whisper",
}

// WhisperCpp shells out to the whisper.cpp command line tool for each phrase.
type WhisperCpp struct {
	modelPath string
	binary    string
	language  string
	threads   int
	beamSize  int
	log       *slog.Logger

	checkOnce sync.Once
	checkErr  error
}

// WhisperCppOptions configures a WhisperCpp engine.
type WhisperCppOptions struct {
	ModelPath string
	// Binary overrides binary discovery with an explicit path.
	Binary   string
	Language string
	Threads  int
	BeamSize int
	Logger   *slog.Logger
}

// NewWhisperCpp builds the engine. Binary discovery is deferred to the first
// Transcribe call so construction never fails on a missing toolchain.
func NewWhisperCpp(opts WhisperCppOptions) *WhisperCpp {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WhisperCpp{
		modelPath: opts.ModelPath,
		binary:    opts.Binary,
		language:  opts.Language,
		threads:   opts.Threads,
		beamSize:  opts.BeamSize,
		log:       logger.With("component", "transcribe.whispercpp"),
	}
}

// Transcribe writes the phrase to a temporary WAV file and decodes it with
// whisper-cli.
func (e *WhisperCpp) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}
	if err := e.ensureBinary(); err != nil {
		return "", err
	}

	wavPath, err := e.writeTempWAV(samples, sampleRate)
	if err != nil {
		return "", err
	}
	defer os.Remove(wavPath)

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	args := []string{
		"-m", e.modelPath,
		"-f", wavPath,
		"--no-timestamps",
	}
	if e.language != "" {
		args = append(args, "--language", e.language)
	}
	if e.threads > 0 {
		args = append(args, "--threads", strconv.Itoa(e.threads))
	}
	if e.beamSize > 0 {
		args = append(args, "--beam-size", strconv.Itoa(e.beamSize))
	}

	cmd := exec.CommandContext(runCtx, e.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("transcribe: whisper-cli timed out after %s", runTimeout)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("transcribe: whisper-cli: %w: %s", err, lastLine(detail))
		}
		return "", fmt.Errorf("transcribe: whisper-cli: %w", err)
	}

	text := cleanTranscript(stdout.String())
	e.log.Debug("phrase decoded",
		"samples", len(samples),
		"took", time.Since(start),
		"chars", len(text))
	return text, nil
}

// Close implements the Engine interface; the exec engine holds no resources.
func (e *WhisperCpp) Close() error { return nil }

func (e *WhisperCpp) ensureBinary() error {
	e.checkOnce.Do(func() {
		if e.binary != "" {
			if _, err := exec.LookPath(e.binary); err != nil {
				e.checkErr = fmt.Errorf("transcribe: whisper binary %s: %w", e.binary, err)
			}
			return
		}
		for _, candidate := range binaryCandidates {
			if path, err := exec.LookPath(candidate); err == nil {
				e.binary = path
				e.log.Debug("whisper binary found", "path", path)
				return
			}
		}
		e.checkErr = fmt.Errorf("transcribe: no whisper.cpp binary on PATH (tried %s): %w",
			strings.Join(binaryCandidates, ", "), ErrEngineUnavailable)
	})
	return e.checkErr
}

func (e *WhisperCpp) writeTempWAV(samples []float32, sampleRate int) (string, error) {
	f, err := os.CreateTemp("", "satori-phrase-*.wav")
	if err != nil {
		return "", fmt.Errorf("transcribe: temp wav: %w", err)
	}
	if err := writeWAV(f, samples, sampleRate); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("transcribe: close temp wav: %w", err)
	}
	return f.Name(), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
