// prism - CPU software rasterizer
// Render a scene file to the terminal, an image, or an interactive viewer.
//
// Usage:
//
//	prism [options] [scene.yaml|scene.toml]
//
// Without a scene file the built-in demo triangle is drawn on a 20x15
// target and dumped as ASCII art.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/scene"
)

var (
	scenePath = flag.String("scene", "", "Scene file (YAML or TOML)")
	width     = flag.Int("width", 0, "Target width override")
	height    = flag.Int("height", 0, "Target height override")
	samples   = flag.Int("samples", 0, "Sample power override (1 = one sample per pixel)")
	outPath   = flag.String("out", "", "Write the frame to a .png, .bmp, .tiff or .txt file")
	useColor  = flag.Bool("color", false, "Color the ASCII dump")
	view      = flag.Bool("view", false, "Open the interactive terminal viewer")
	watch     = flag.Bool("watch", false, "Re-render when the scene file changes")
	progress  = flag.Bool("progress", false, "Show rasterization progress on stderr")
	verbose   = flag.Bool("v", false, "Verbose (debug) logging")
	workers   = flag.Int("workers", 1, "Parallel fill workers")
	wireframe = flag.Bool("wireframe", false, "Overlay triangle edges")
	axes      = flag.Bool("axes", false, "Draw the world axes")
	targetFPS = flag.Int("fps", 30, "Viewer frame rate")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "prism - CPU software rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: prism [options] [scene.yaml|scene.toml]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nViewer controls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  +/- Scroll  - Zoom\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  G           - Toggle axes\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	path := *scenePath
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setup, err := loadSetup(path)
	if err != nil {
		return err
	}

	if *view {
		return runViewer(ctx, setup, path)
	}

	if err := renderOnce(ctx, setup); err != nil {
		return err
	}
	if !*watch {
		return nil
	}
	if path == "" {
		return errors.New("-watch needs a scene file")
	}
	return watchScene(ctx, path, func() error {
		setup, err := loadSetup(path)
		if err != nil {
			return err
		}
		return renderOnce(ctx, setup)
	})
}

// loadSetup builds the scene at path, or the demo scene when path is empty,
// applying command-line overrides before the camera is derived.
func loadSetup(path string) (*scene.Setup, error) {
	cfg := scene.Default()
	dir := ""
	if path != "" {
		var err error
		if cfg, err = scene.Load(path); err != nil {
			return nil, err
		}
		dir = filepath.Dir(path)
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *samples > 0 {
		cfg.Samples = *samples
	}
	return cfg.Build(dir)
}

func renderOnce(ctx context.Context, setup *scene.Setup) error {
	target, err := renderFrame(ctx, setup)
	if err != nil {
		return err
	}
	if *outPath != "" {
		return target.Export(*outPath)
	}
	profile := termenv.Ascii
	if *useColor {
		profile = termenv.EnvColorProfile()
	}
	return target.WriteASCII(os.Stdout, profile)
}

func renderFrame(ctx context.Context, setup *scene.Setup) (*render.RenderTarget, error) {
	target := render.NewRenderTarget(setup.Width, setup.Height)
	target.Clear(setup.Background)

	opts := setup.Options
	opts.Workers = *workers
	opts.Wireframe = *wireframe
	opts.Axes = *axes

	var bar *progressbar.ProgressBar
	if *progress {
		bar = progressbar.NewOptions(setup.Scene.TriangleCount(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("rasterizing"),
			progressbar.OptionClearOnFinish(),
		)
		opts.Tracer = render.TracerFuncs{
			OnTriangleStart: func(int) { _ = bar.Add(1) },
		}
	}

	if err := setup.Scene.Render(ctx, target, opts); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return target, nil
}

// watchScene calls fn whenever the file at path is written or replaced.
// The parent directory is watched so editors that rename over the file are
// still seen.
func watchScene(ctx context.Context, path string, fn func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	want := filepath.Clean(path)
	logger := render.Logger()
	logger.Info("watching scene", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != want || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("scene changed", "op", ev.Op.String())
			if err := fn(); err != nil {
				logger.Error("re-render failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
