package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/KunalKatariya/satori-cli/internal/appinfo"
)

func main() {
	// API keys may live in a local .env; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		return
	}

	var err error
	switch os.Args[1] {
	case "translate":
		err = runTranslate(os.Args[2:])
	case "devices":
		err = runDevices(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "version", "--version", "-v":
		printVersion(os.Stdout)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n\n", appinfo.Info.BinaryName, os.Args[1])
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appinfo.Info.BinaryName, err)
		os.Exit(1)
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", appinfo.Info.BinaryName, appinfo.Info.Version)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "%s - %s\n\n", appinfo.Info.Name, appinfo.Info.Description)
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n\n", appinfo.Info.BinaryName)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  translate   run a live transcription/translation session")
	fmt.Fprintln(w, "  devices     list audio capture devices")
	fmt.Fprintln(w, "  init        prepare data directories and fetch the model")
	fmt.Fprintln(w, "  config      show or update the persisted configuration")
	fmt.Fprintln(w, "  version     print the version")
	fmt.Fprintf(w, "\nRun %s <command> -h for command flags.\n", appinfo.Info.BinaryName)
}

func newLogger(level string, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openSessionLog opens the per-run log file under the data dir. The live
// session owns stdout, so slog output goes here instead.
func openSessionLog(logsDir string) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", logsDir, err)
	}
	path := filepath.Join(logsDir, "satori.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}
