// Command update_manifest refreshes size and sha256 fields in the embedded
// model manifest by downloading each variant once. Run after bumping model
// URLs.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/KunalKatariya/satori-cli/internal/models"
)

func main() {
	var (
		manifestPath = flag.String("manifest", "internal/models/embedded_manifest.json", "path to the manifest JSON to update")
		only         = flag.String("only", "", "limit to a single variant name")
	)
	flag.Parse()

	if err := run(*manifestPath, *only); err != nil {
		fmt.Fprintf(os.Stderr, "update_manifest: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath, only string) error {
	file, err := os.Open(manifestPath)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	manifest, err := models.LoadManifest(file)
	file.Close()
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 30 * time.Minute}
	updated := 0

	for name, variant := range manifest.Variants {
		if only != "" && name != only {
			continue
		}
		if variant.URL == "" {
			fmt.Printf("%s: skipping (no URL)\n", name)
			continue
		}

		fmt.Printf("%s: hashing %s...\n", name, variant.URL)
		size, sum, err := hashRemote(client, variant.URL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			continue
		}

		variant.SHA256 = sum
		variant.SizeBytes = size
		manifest.Variants[name] = variant
		updated++
		fmt.Printf("%s: size=%d sha256=%s\n", name, size, sum)
	}

	if updated == 0 {
		return fmt.Errorf("no variants updated")
	}
	return writeManifest(manifestPath, manifest)
}

func hashRemote(client *http.Client, url string) (int64, string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	hasher := sha256.New()
	written, err := io.Copy(hasher, resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("read: %w", err)
	}
	return written, hex.EncodeToString(hasher.Sum(nil)), nil
}

func writeManifest(path string, manifest models.Manifest) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	defer out.Close()

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	fmt.Printf("Updated manifest written to %s\n", path)
	return nil
}
