package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/KunalKatariya/satori-cli/internal/config"
)

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var (
		setModel     = fs.String("set-model", "", "persist a new model variant")
		setDevice    = fs.String("set-device", "", "persist a new capture device name")
		setTranslate = fs.String("set-translate-to", "", "persist a translation target (en, ja, hi); 'off' disables")
		setLanguage  = fs.String("set-language", "", "persist the spoken language hint")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Loader{}.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	changed := false
	if *setModel != "" {
		cfg.ModelVariant = *setModel
		changed = true
	}
	if *setDevice != "" {
		cfg.Device = *setDevice
		changed = true
	}
	if *setTranslate != "" {
		if *setTranslate == "off" {
			cfg.TranslateTo = ""
		} else {
			cfg.TranslateTo = *setTranslate
		}
		changed = true
	}
	if *setLanguage != "" {
		cfg.Language = *setLanguage
		changed = true
	}

	if changed {
		if err := cfg.Validate(); err != nil {
			return err
		}
		path := filepath.Join(cfg.DataDir, "config.yaml")
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Printf("Configuration saved to %s\n\n", path)
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(cfg)
}
