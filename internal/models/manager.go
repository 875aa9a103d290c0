package models

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// minPlausibleBytes is the smallest file accepted as a real model; anything
// below this is treated as a broken download.
const minPlausibleBytes = 1 << 20

// ErrDownloadDeclined is returned when the consent callback rejects a
// download.
var ErrDownloadDeclined = errors.New("models: download declined")

// Manager resolves and downloads whisper model artefacts under the data dir.
type Manager struct {
	baseDir string
	log     *slog.Logger
	client  *http.Client
}

// EnsureOptions configures EnsureVariant.
type EnsureOptions struct {
	Manifest Manifest
	// Override bypasses the manifest and points at an explicit model file.
	Override string
	// Force re-downloads even when a local copy exists.
	Force bool
	// Consent is asked once before network traffic; nil means consent granted.
	Consent func(Variant) bool
}

// NewManager creates a manager rooted at dataDir and ensures the model cache
// directory exists.
func NewManager(dataDir string, logger *slog.Logger) (*Manager, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, fmt.Errorf("models: data dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		baseDir: dataDir,
		log:     logger.With("component", "models.Manager"),
		client:  &http.Client{Timeout: 30 * time.Minute},
	}
	if err := os.MkdirAll(m.ModelsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("models: create %s: %w", m.ModelsDir(), err)
	}
	return m, nil
}

// ModelsDir returns the directory holding downloaded model files.
func (m *Manager) ModelsDir() string {
	return filepath.Join(m.baseDir, "models", "whisper")
}

// Resolve returns the local path for a variant without downloading. An
// explicit override wins; otherwise the conventional ggml-<variant>.bin file
// below ModelsDir is expected to exist.
func (m *Manager) Resolve(variant, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("models: model override %s: %w", override, err)
		}
		return override, nil
	}
	name := strings.TrimSpace(variant)
	if name == "large" {
		name = "large-v2"
	}
	path := filepath.Join(m.ModelsDir(), "ggml-"+name+".bin")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("models: model %s: %w", path, err)
	}
	return path, nil
}

// EnsureVariant resolves a variant, downloading it when missing. Partial
// downloads are kept in a sibling .tmp file and resumed with an HTTP Range
// request; an orphaned complete .tmp is finalised in place.
func (m *Manager) EnsureVariant(ctx context.Context, variant string, opts EnsureOptions) (string, error) {
	if strings.TrimSpace(opts.Override) != "" {
		return m.Resolve(variant, opts.Override)
	}

	spec, ok := opts.Manifest.Lookup(variant)
	if !ok {
		return "", fmt.Errorf("models: unknown variant %q", variant)
	}

	path := filepath.Join(m.ModelsDir(), spec.Filename)
	tmpPath := path + ".tmp"

	if !opts.Force {
		if m.recoverOrphan(path, tmpPath, spec) {
			return path, nil
		}
		if info, err := os.Stat(path); err == nil && info.Size() >= minPlausibleBytes {
			return path, nil
		}
	}

	if spec.URL == "" {
		return "", fmt.Errorf("models: variant %q has no download URL", variant)
	}
	if opts.Consent != nil && !opts.Consent(spec) {
		return "", ErrDownloadDeclined
	}

	if err := m.download(ctx, spec, tmpPath); err != nil {
		return "", err
	}
	if err := m.finalize(spec, tmpPath, path); err != nil {
		return "", err
	}
	return path, nil
}

// recoverOrphan promotes a complete leftover .tmp file from an interrupted
// earlier run. Undersized temps are removed so the next download starts clean.
func (m *Manager) recoverOrphan(path, tmpPath string, spec Variant) bool {
	if _, err := os.Stat(path); err == nil {
		return false
	}
	info, err := os.Stat(tmpPath)
	if err != nil {
		return false
	}
	if !sizePlausible(spec, info.Size()) {
		return false
	}
	if err := os.Rename(tmpPath, path); err != nil {
		m.log.Warn("could not finalise leftover download", "path", tmpPath, "error", err)
		return false
	}
	m.log.Info("recovered interrupted model download", "path", path, "bytes", info.Size())
	return true
}

func (m *Manager) download(ctx context.Context, spec Variant, tmpPath string) error {
	var offset int64
	if info, err := os.Stat(tmpPath); err == nil {
		offset = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.URL, nil)
	if err != nil {
		return fmt.Errorf("models: build request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("models: download %s: %w", spec.URL, err)
	}
	defer resp.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY
	switch resp.StatusCode {
	case http.StatusPartialContent:
		flags |= os.O_APPEND
		m.log.Info("resuming model download", "file", spec.Filename, "offset", offset)
	case http.StatusOK:
		flags |= os.O_TRUNC
		if offset > 0 {
			m.log.Info("server ignored range request, restarting download", "file", spec.Filename)
		}
	default:
		return fmt.Errorf("models: download %s: unexpected status %s", spec.URL, resp.Status)
	}

	out, err := os.OpenFile(tmpPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("models: open %s: %w", tmpPath, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		// The partial .tmp stays behind so the next attempt resumes.
		return fmt.Errorf("models: download %s: %w", spec.URL, err)
	}
	m.log.Info("model download complete", "file", spec.Filename, "bytes", offset+written)
	return nil
}

func (m *Manager) finalize(spec Variant, tmpPath, path string) error {
	info, err := os.Stat(tmpPath)
	if err != nil {
		return fmt.Errorf("models: stat %s: %w", tmpPath, err)
	}
	if !sizePlausible(spec, info.Size()) {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("models: %s is %d bytes, expected about %d; removed corrupt download",
			spec.Filename, info.Size(), spec.SizeBytes)
	}
	if spec.SHA256 != "" {
		sum, err := fileSHA256(tmpPath)
		if err != nil {
			return err
		}
		if !strings.EqualFold(sum, spec.SHA256) {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("models: %s checksum mismatch: want %s, got %s", spec.Filename, spec.SHA256, sum)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("models: finalise %s: %w", path, err)
	}
	return nil
}

// sizePlausible accepts files within 10% of the manifest size, or anything
// over the minimum when the manifest carries no size.
func sizePlausible(spec Variant, size int64) bool {
	if size < minPlausibleBytes {
		return false
	}
	if spec.SizeBytes <= 0 {
		return true
	}
	return size >= spec.SizeBytes*9/10
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("models: open %s: %w", path, err)
	}
	defer f.Close()
	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("models: hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

