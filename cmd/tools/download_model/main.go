// Command download_model fetches a whisper model variant into a data
// directory, outside the interactive CLI. Useful for provisioning and CI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KunalKatariya/satori-cli/internal/config"
	"github.com/KunalKatariya/satori-cli/internal/models"
)

func main() {
	var (
		variant = flag.String("variant", config.DefaultModel, "model variant defined in internal/models/embedded_manifest.json")
		output  = flag.String("dir", "", "data directory to store models under (default ~/.satori)")
		force   = flag.Bool("force", false, "re-download even when a local copy exists")
	)
	flag.Parse()

	baseDir := strings.TrimSpace(*output)
	if baseDir == "" {
		resolved, err := config.DefaultDataDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "download_model: %v\n", err)
			os.Exit(1)
		}
		baseDir = resolved
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	manager, err := models.NewManager(filepath.Clean(baseDir), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "download_model: init manager: %v\n", err)
		os.Exit(1)
	}

	manifest, err := models.DefaultManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "download_model: load manifest: %v\n", err)
		os.Exit(1)
	}

	path, err := manager.EnsureVariant(ctx, *variant, models.EnsureOptions{
		Manifest: manifest,
		Force:    *force,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "download_model: ensure variant %q: %v\n", *variant, err)
		os.Exit(1)
	}

	fmt.Printf("Model %q ready at %s\n", *variant, path)
}
