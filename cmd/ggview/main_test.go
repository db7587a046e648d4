package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/ggview"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"800x600", 800, 600, false},
		{"1920X1080", 1920, 1080, false},
		{"800", 0, 0, true},
		{"0x10", 0, 0, true},
		{"ax10", 0, 0, true},
		{"10x-1", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parseSize(%q) = %dx%d, want %dx%d", tt.in, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(env(nil))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.mode != ggview.InterpBilinear || cfg.level != slog.LevelWarn {
		t.Errorf("mode = %v, level = %v, want Bilinear, WARN", cfg.mode, cfg.level)
	}
	if cfg.width != 800 || cfg.height != 600 || cfg.host != "" {
		t.Errorf("size = %dx%d, host = %q", cfg.width, cfg.height, cfg.host)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	cfg, err := loadConfig(env(map[string]string{
		"GGVIEW_SCALER":   "nearest",
		"GGVIEW_HOST":     "headless",
		"GGVIEW_LOG":      "debug",
		"GGVIEW_SIZE":     "320x200",
		"GGVIEW_SNAPSHOT": "out.png",
	}))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	want := config{
		mode:     ggview.InterpNearest,
		host:     "headless",
		level:    slog.LevelDebug,
		width:    320,
		height:   200,
		snapshot: "out.png",
	}
	if cfg != want {
		t.Errorf("loadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	for _, vars := range []map[string]string{
		{"GGVIEW_SCALER": "bicubic"},
		{"GGVIEW_LOG": "loud"},
		{"GGVIEW_SIZE": "big"},
	} {
		if _, err := loadConfig(env(vars)); err == nil {
			t.Errorf("loadConfig(%v) should fail", vars)
		}
	}
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", nil, "USAGE"},
		{"list", []string{"-list"}, "not implemented"},
		{"ctl", []string{"-ctl"}, "not implemented"},
		{"list with files", []string{"-list", "a.png"}, "USAGE"},
		{"ctl with list", []string{"-ctl", "-list"}, "USAGE"},
		{"unknown flag", []string{"-x"}, "USAGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr, env(nil)); code != 1 {
				t.Errorf("exit = %d, want 1", code)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestRun_Headless(t *testing.T) {
	t.Cleanup(func() { ggview.SetLogger(nil) })
	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "a.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	snap := filepath.Join(dir, "snap.png")

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr, env(map[string]string{
		"GGVIEW_HOST":     "headless",
		"GGVIEW_SIZE":     "30x30",
		"GGVIEW_SNAPSHOT": snap,
	}))
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %s", code, stderr.String())
	}
	if _, err := os.Stat(snap); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

func TestRun_NoValidImages(t *testing.T) {
	t.Cleanup(func() { ggview.SetLogger(nil) })
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(dir, "missing.png"), filepath.Join(dir, "gone.jpg")},
		&stdout, &stderr, env(map[string]string{"GGVIEW_HOST": "headless"}))
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "no valid images to view") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "missing.png") {
		t.Errorf("skipped file not logged: %q", stderr.String())
	}
}

func TestRun_UnknownHost(t *testing.T) {
	t.Cleanup(func() { ggview.SetLogger(nil) })
	var stdout, stderr bytes.Buffer
	code := run([]string{"a.png"}, &stdout, &stderr, env(map[string]string{"GGVIEW_HOST": "nope"}))
	if code != 1 || !strings.Contains(stderr.String(), "host not found") {
		t.Errorf("exit = %d, stderr = %q", code, stderr.String())
	}
}
