// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command promap runs a projection mapping show.
//
// Without -project it builds a demo: two blended projectors side by side
// showing a keystoned alignment grid. Every content reference of the show
// is fed a test pattern.
//
//	promap -ticks 1 -out shots/          # render one frame per output to PNG
//	promap -project show.yaml -window    # live preview in a window
//	promap -project show.yaml -watch     # reload the show when it changes
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gogpu/promap"
	_ "github.com/gogpu/promap/gpu"
	"github.com/gogpu/promap/project"
	"github.com/gogpu/promap/surface"
	"github.com/gogpu/promap/surface/window"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// run executes one show. Every resource it opens is released before it
// returns.
func run(args []string) error {
	fs := flag.NewFlagSet("promap", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "engine config file (TOML)")
		projectPath = fs.String("project", "", "show file (YAML or TOML)")
		ticks       = fs.Int("ticks", 1, "number of ticks to run; 0 runs until interrupted")
		outDir      = fs.String("out", ".", "directory for per-output PNG snapshots")
		pattern     = fs.String("pattern", "grid", "test pattern: grid, bars, gradient or sweep")
		useWindow   = fs.Bool("window", false, "present on a window instead of images")
		watch       = fs.Bool("watch", false, "reload the show file when it changes")
		save        = fs.String("save", "", "write the resulting show to this file")
		verbose     = fs.Bool("v", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	promap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := promap.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = promap.LoadConfig(*configPath); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	// The window backend outranks the others while the process window is
	// free, so the first output takes the window and the rest fall back.
	if cfg.SurfaceBackend == "" && !*useWindow {
		cfg.SurfaceBackend = "image"
	}

	content, err := newPatternSource(*pattern)
	if err != nil {
		return err
	}

	e, err := promap.New(
		promap.WithConfig(cfg),
		promap.WithTickHook(content.advance),
	)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	defer e.Close()
	content.engine = e

	if *projectPath != "" {
		st, err := project.Load(*projectPath)
		if err != nil {
			return err
		}
		if err := e.ImportState(st); err != nil {
			return err
		}
	} else if err := buildDemo(e); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	content.publishAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *watch && *projectPath != "" {
		w, err := watchProject(ctx, *projectPath, e, content.publishAll)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer w.Close()
	}

	switch {
	case *useWindow:
		err = runWindowed(ctx, e, *ticks)
	case *ticks == 0:
		err = e.Run(ctx)
	default:
		err = runTicks(ctx, e, content, *ticks)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if !*useWindow {
		if err := snapshot(e, *outDir); err != nil {
			return err
		}
	}
	if *save != "" {
		if err := project.Save(*save, e.ExportState()); err != nil {
			return err
		}
		log.Printf("show saved to %s", *save)
	}
	return nil
}

// runTicks drives n ticks back to back.
func runTicks(ctx context.Context, e *promap.Engine, content *patternSource, n int) error {
	for range n {
		rep, err := e.Tick(ctx)
		if err != nil {
			return err
		}
		content.advance(rep)
		for _, r := range rep.Outputs {
			if r.Err != nil {
				log.Printf("tick %d: %v", rep.Tick, r.Err)
			}
		}
	}
	return nil
}

// runWindowed runs the engine in the background and the window loop on
// the main goroutine. Closing the window stops the show.
func runWindowed(ctx context.Context, e *promap.Engine, ticks int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if ticks > 0 {
		log.Printf("-ticks is ignored with -window")
	}
	// The first tick creates the surfaces and so claims the window.
	if _, err := e.Tick(ctx); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- e.Run(ctx)
	}()

	if err := window.Run(); err != nil {
		if errors.Is(err, window.ErrNoWindow) {
			cancel()
			<-done
			return err
		}
		log.Printf("window: %v", err)
	}
	cancel()
	return <-done
}

// snapshot writes the last frame of every image output to dir.
func snapshot(e *promap.Engine, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, o := range e.Outputs() {
		s, ok := e.Surface(o.ID)
		if !ok {
			continue
		}
		img, ok := s.(*surface.ImageSurface)
		if !ok {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("output-%d.png", o.ID))
		if err := img.SavePNG(path); err != nil {
			return err
		}
		log.Printf("%s (%s) saved to %s", o.Name, o.Resolution, path)
	}
	return nil
}
