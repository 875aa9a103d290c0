package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KunalKatariya/satori-cli/internal/audio"
	"github.com/KunalKatariya/satori-cli/internal/config"
	"github.com/KunalKatariya/satori-cli/internal/models"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var (
		model        = fs.String("model", "", "whisper model variant to fetch")
		skipDownload = fs.Bool("skip-download", false, "prepare directories without fetching the model")
		yes          = fs.Bool("yes", false, "skip the download confirmation prompt")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Loader{}.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyStringFlag(&cfg.ModelVariant, *model)
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, dir := range []string{cfg.DataDir, cfg.ModelsDir(), cfg.LogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	fmt.Printf("Data directory ready at %s\n", cfg.DataDir)

	configPath := filepath.Join(cfg.DataDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath, cfg); err != nil {
			return err
		}
		fmt.Printf("Wrote default configuration to %s\n", configPath)
	}

	if backend, err := audio.Detect(); err != nil {
		fmt.Printf("Audio capture: UNAVAILABLE (%v)\n", err)
	} else {
		fmt.Printf("Audio capture: %s backend available\n", backend.Name())
	}

	if *skipDownload {
		fmt.Println("Skipping model download.")
		return nil
	}

	logger := newLogger(cfg.LogLevel, os.Stderr)
	manager, err := models.NewManager(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("init model manager: %w", err)
	}
	manifest, err := models.DefaultManifest()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	path, err := manager.EnsureVariant(ctx, cfg.ModelVariant, models.EnsureOptions{
		Manifest: manifest,
		Override: cfg.ModelPath,
		Consent:  downloadConsent(*yes),
	})
	if err != nil {
		return fmt.Errorf("ensure model %q: %w", cfg.ModelVariant, err)
	}
	fmt.Printf("Model %q ready at %s\n", cfg.ModelVariant, path)
	return nil
}

// downloadConsent prompts before fetching a model unless --yes was given.
func downloadConsent(assumeYes bool) func(models.Variant) bool {
	return func(v models.Variant) bool {
		if assumeYes {
			return true
		}
		size := "unknown size"
		if v.SizeBytes > 0 {
			size = fmt.Sprintf("%.0f MB", float64(v.SizeBytes)/(1<<20))
		}
		fmt.Printf("Download %s (%s)? [y/N] ", v.DisplayName, size)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return false
		}
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes"
	}
}
