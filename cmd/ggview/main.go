// Command ggview shows image files in a window.
//
// Usage:
//
//	ggview FILE1 [FILE2 ...]
//
// Keys: Escape or q quits, Right/Space/PageDown/t shows the next file,
// Left/Backspace/PageUp/n the previous one, r reloads, Enter prints the
// current file name.
//
// Environment:
//
//	GGVIEW_SCALER    bilinear (default) or nearest
//	GGVIEW_HOST      host name, for example ebiten or headless
//	GGVIEW_LOG       debug, info, warn (default) or error
//	GGVIEW_SIZE      initial window size, default 800x600
//	GGVIEW_SNAPSHOT  PNG path for the first frame (headless host only)
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/ggview"
	_ "github.com/gogpu/ggview/backend/ebiten"
	"github.com/gogpu/ggview/input"
	"github.com/gogpu/ggview/surface"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// config holds the settings read from the environment.
type config struct {
	mode          ggview.InterpolationMode
	host          string
	level         slog.Level
	width, height int
	snapshot      string
}

// loadConfig reads the GGVIEW_* variables through getenv.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		level:  slog.LevelWarn,
		width:  800,
		height: 600,
	}

	mode, err := ggview.ParseInterpolation(getenv("GGVIEW_SCALER"))
	if err != nil {
		return cfg, fmt.Errorf("GGVIEW_SCALER: %w", err)
	}
	cfg.mode = mode

	cfg.host = getenv("GGVIEW_HOST")
	cfg.snapshot = getenv("GGVIEW_SNAPSHOT")

	if s := getenv("GGVIEW_LOG"); s != "" {
		if err := cfg.level.UnmarshalText([]byte(s)); err != nil {
			return cfg, fmt.Errorf("GGVIEW_LOG: %w", err)
		}
	}

	if s := getenv("GGVIEW_SIZE"); s != "" {
		w, h, err := parseSize(s)
		if err != nil {
			return cfg, fmt.Errorf("GGVIEW_SIZE: %w", err)
		}
		cfg.width, cfg.height = w, h
	}
	return cfg, nil
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %dx%d must be positive", w, h)
	}
	return w, h, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "USAGE: ggview [FILE1 [FILE2 [...]]]")
	fmt.Fprintln(w, "       ggview -list                 : treat stdin as list of files")
	fmt.Fprintln(w, "       ggview -ctl                  : display files as they are received on stdin")
}

// run is main without the process exit. It returns the exit status.
func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("ggview", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { usage(stdout) }
	list := fs.Bool("list", false, "treat stdin as list of files")
	ctl := fs.Bool("ctl", false, "display files as they are received on stdin")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	files := fs.Args()
	switch {
	case *list || *ctl:
		if (*list && *ctl) || len(files) > 0 {
			usage(stdout)
			return 1
		}
		fmt.Fprintln(stdout, "not implemented")
		return 1
	case len(files) == 0:
		usage(stdout)
		return 1
	}

	cfg, err := loadConfig(getenv)
	if err != nil {
		fmt.Fprintln(stderr, "ggview:", err)
		return 1
	}
	ggview.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.level})))

	hostCfg := surface.Config{
		Width:    cfg.width,
		Height:   cfg.height,
		Title:    "ggview",
		Snapshot: cfg.snapshot,
	}
	var host surface.Host
	if cfg.host != "" {
		host, err = surface.NewHostByName(cfg.host, hostCfg)
	} else {
		host, err = surface.NewHost(hostCfg)
	}
	if err != nil {
		fmt.Fprintln(stderr, "ggview:", err)
		return 1
	}
	ggview.Logger().Info("ggview: host selected", "host", fmt.Sprintf("%T", host), "scaler", cfg.mode)

	v, err := ggview.NewViewer(files, host,
		ggview.WithScaler(cfg.mode),
		ggview.WithOutput(stdout))
	if err != nil {
		fmt.Fprintln(stderr, "ggview:", err)
		return 1
	}
	defer v.Close()

	q := input.NewQueue()
	err = host.Run(q, func() error { return v.Pump(q) })
	switch {
	case err == nil, errors.Is(err, ggview.ErrQuit):
		return 0
	case errors.Is(err, ggview.ErrNoValidImages):
		fmt.Fprintln(stderr, "no valid images to view")
		return 1
	default:
		fmt.Fprintln(stderr, "ggview:", err)
		return 1
	}
}
