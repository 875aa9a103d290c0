package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/KunalKatariya/satori-cli/internal/audio"
)

func runDevices(args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	backend, err := audio.Detect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	devices, err := backend.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("enumerate devices: %w", err)
	}

	fmt.Printf("Capture devices (%s backend):\n", backend.Name())
	if len(devices) == 0 {
		fmt.Println("  none found")
		return nil
	}
	for _, dev := range devices {
		mark := " "
		if dev.Loopback {
			mark = "*"
		}
		fmt.Printf("  %s %s\n", mark, dev.Name)
	}
	fmt.Println("\n* marks loopback devices that capture system audio output.")
	return nil
}
