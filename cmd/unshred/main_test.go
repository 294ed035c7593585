package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/image-unshred/internal/unshred"
)

func gradientPNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 60, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 4), uint8(y*10 + x), uint8(200 - x*3), 255})
		}
	}
	path := filepath.Join(dir, "original.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	return path
}

// run parses args like the real binary and runs the selected command,
// returning what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var c CLI
	parser, err := kong.New(&c, kong.Name("unshred"), kong.Exit(func(int) { t.Fatalf("kong exited on %v", args) }))
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	stdout = &buf
	defer func() { stdout = os.Stdout }()

	err = kctx.Run(&c.Globals)
	return buf.String(), err
}

func TestShredSolveVerify(t *testing.T) {
	dir := t.TempDir()
	original := gradientPNG(t, dir)
	shredded := filepath.Join(dir, "shredded.png")

	out, err := run(t, "shred", "--width", "10", "--seed", "4", original, shredded)
	if err != nil {
		t.Fatalf("shred failed: %v", err)
	}
	if !strings.Contains(out, "solution:") {
		t.Errorf("shred output: %q", out)
	}

	overlay := filepath.Join(dir, "overlay.png")
	out, err = run(t, "solve", "-w", "10", "--overlay", overlay, shredded)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	solved := filepath.Join(dir, "shredded-sol.png")
	if !strings.HasPrefix(out, solved+": 6 strips of width 10 (given)") {
		t.Errorf("solve output: %q", out)
	}
	if _, err := os.Stat(overlay); err != nil {
		t.Errorf("overlay not written: %v", err)
	}

	out, err = run(t, "verify", solved, original)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if strings.TrimSpace(out) != "identical" {
		t.Errorf("verify output: %q", out)
	}

	_, err = run(t, "verify", overlay, original)
	if !errors.Is(err, errMismatch) {
		t.Errorf("verify of overlay: got %v, want mismatch", err)
	}
	if exitCode(err) != 3 {
		t.Errorf("exit code: got %d, want 3", exitCode(err))
	}
}

func TestMatchAndWidth(t *testing.T) {
	dir := t.TempDir()
	original := gradientPNG(t, dir)

	out, err := run(t, "match", "-w", "10", "--metric", "lab", original)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if !strings.Contains(out, `"leftmost": 0`) || !strings.Contains(out, `"rightmost": 5`) {
		t.Errorf("match output: %s", out)
	}

	// a smooth gradient has no seams to find
	_, err = run(t, "width", original)
	if !errors.Is(err, unshred.ErrInsufficientData) {
		t.Errorf("width: got %v, want ErrInsufficientData", err)
	}
}

func TestSolverFlags_Config(t *testing.T) {
	f := SolverFlags{Width: 8, SeamRatio: 2, SeamMode: "spacing", Metric: "lab", Workers: 3, MaxStrips: 10}
	cfg, err := f.Config()
	if err != nil {
		t.Fatalf("Config failed: %v", err)
	}
	if cfg.StripWidth != 8 || cfg.SeamMode != unshred.SeamSpacing || cfg.Workers != 3 || cfg.MaxStrips != 10 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if _, ok := cfg.Metric.(unshred.LabDiff); !ok {
		t.Errorf("metric: got %T, want LabDiff", cfg.Metric)
	}

	f = SolverFlags{SeamRatio: 0.9, SeamMode: "positions", Metric: "absdiff"}
	_, err = f.Config()
	if !errors.Is(err, unshred.ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
	if exitCode(err) != 2 {
		t.Errorf("exit code: got %d, want 2", exitCode(err))
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "unshred dev") {
		t.Errorf("version output: %q", out)
	}
}

func TestStartCPUProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")

	stop, err := startCPUProfile(path)
	if err != nil {
		t.Fatalf("startCPUProfile failed: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	// the first stop already closed the file
	if err := stop(); !errors.Is(err, os.ErrClosed) {
		t.Errorf("second stop: got %v, want os.ErrClosed", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("profile not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("profile is empty")
	}

	if _, err := startCPUProfile(filepath.Join(t.TempDir(), "missing", "cpu.prof")); err == nil {
		t.Error("expected error for an uncreatable path")
	}
}
