// seehuhn.de/go/psprint - a driver core for PostScript page printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Psprint prints a raster image on a PostScript printer and polls
// printers for their current default settings.
//
// Usage:
//
//	psprint print [options] input.png
//	psprint poll [options]
//
// Device targets are either file names or tcp://host:port addresses.
// Defaults for the model directory, the accessory configuration file
// and the device target can be set through the environment variables
// PSPRINT_MODELS, PSPRINT_ACCESSORIES and PSPRINT_DEVICE, optionally
// from a .env file.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"seehuhn.de/go/psprint"
	"seehuhn.de/go/psprint/accessory"
	"seehuhn.de/go/psprint/device"
	"seehuhn.de/go/psprint/modelfile"
	"seehuhn.de/go/psprint/query"
)

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := newLogger()
	defer log.Sync()

	var err error
	switch os.Args[1] {
	case "print":
		err = runPrint(log, os.Args[2:])
	case "poll":
		err = runPoll(log, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "psprint: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s print|poll [options]\n", os.Args[0])
}

func newLogger() *zap.Logger {
	var cfg zap.Config
	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func envDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// openDevice opens a device channel for the given target: either a
// tcp://host:port socket printer or an output file.
func openDevice(target string) (device.OpenCloser, error) {
	if addr, ok := strings.CutPrefix(target, "tcp://"); ok {
		return device.Dial("tcp", addr, 10*time.Second)
	}
	return device.Create(target)
}

// loadModel sets up the driver registry and loads the requested model.
func loadModel(modelsDir, id string) (*psprint.Model, error) {
	reg := psprint.NewRegistry()
	reg.SetFallback(&modelfile.Loader{Dir: modelsDir})
	return reg.Load(id)
}

func runPoll(log *zap.Logger, args []string) error {
	flags := newFlagSet("poll")
	modelsDir := flags.String("models", envDefault("PSPRINT_MODELS", "models"), "model file directory")
	modelID := flags.String("model", "", "model identifier")
	accPath := flags.String("accessories", envDefault("PSPRINT_ACCESSORIES", "accessories.yaml"), "accessory configuration file")
	target := flags.String("device", envDefault("PSPRINT_DEVICE", ""), "device target")
	scopeName := flags.String("scope", "installable", "poll scope: general or installable")
	timeout := flags.Duration("timeout", 2*time.Minute, "overall poll timeout")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *modelID == "" || *target == "" {
		return fmt.Errorf("poll: -model and -device are required")
	}

	var scope query.Scope
	switch *scopeName {
	case "general":
		scope = query.General
	case "installable":
		scope = query.Installable
	default:
		return fmt.Errorf("poll: unknown scope %q", *scopeName)
	}

	m, err := loadModel(*modelsDir, *modelID)
	if err != nil {
		return err
	}

	dev, err := openDevice(*target)
	if err != nil {
		return err
	}
	defer dev.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	defaults, err := query.Poll(ctx, m, dev, scope, &query.Options{Logger: log})
	if err != nil {
		return err
	}

	for kw, val := range defaults {
		fmt.Printf("%s=%s\n", kw, val)
	}

	if scope == query.Installable {
		store := &accessory.Store{Path: *accPath}
		cfg, err := store.Load()
		if err != nil {
			return err
		}
		cfg.Merge(defaults)
		if err := store.Save(cfg); err != nil {
			return err
		}
		log.Info("accessory configuration updated",
			zap.String("path", *accPath),
			zap.Int("options", len(defaults)))
	}
	return nil
}
