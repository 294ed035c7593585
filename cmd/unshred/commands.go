package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/disintegration/imaging"

	imgtools "github.com/ironsheep/image-unshred/internal/imaging"
	"github.com/ironsheep/image-unshred/internal/server"
	"github.com/ironsheep/image-unshred/internal/unshred"
	"github.com/ironsheep/image-unshred/internal/viewer"
)

// errMismatch is returned by verify when the images differ.
var errMismatch = errors.New("images differ")

// stdout is where commands print their results.
var stdout io.Writer = os.Stdout

func exitCode(err error) int {
	switch {
	case errors.Is(err, unshred.ErrInvalidConfig):
		return 2
	case errors.Is(err, errMismatch):
		return 3
	default:
		return 1
	}
}

// SolverFlags are the solver settings shared by solve, width, match and serve.
type SolverFlags struct {
	Width     int     `short:"w" default:"0" help:"Strip width in pixels; 0 infers it from seams."`
	SeamRatio float64 `default:"1.5" help:"Seam sensitivity: a column difference must exceed this multiple of its neighbourhood mean."`
	SeamMode  string  `enum:"positions,spacing" default:"positions" help:"Width estimate from seam positions or seam spacing (${enum})."`
	Metric    string  `enum:"absdiff,lab" default:"absdiff" help:"Edge distance (${enum})."`
	Workers   int     `default:"0" help:"Matching goroutines; 0 uses every CPU."`
	MaxStrips int     `default:"4096" help:"Refuse images with more strips than this; 0 disables the check."`
}

// Config converts the flags into a validated solver configuration.
func (f SolverFlags) Config() (unshred.Config, error) {
	cfg := unshred.DefaultConfig()
	cfg.StripWidth = f.Width
	cfg.SeamRatio = f.SeamRatio
	cfg.MaxStrips = f.MaxStrips
	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}

	mode, err := unshred.ParseSeamMode(f.SeamMode)
	if err != nil {
		return cfg, err
	}
	cfg.SeamMode = mode

	metric, err := unshred.MetricByName(f.Metric)
	if err != nil {
		return cfg, err
	}
	cfg.Metric = metric

	return cfg, cfg.Validate()
}

// SolveCmd reassembles a shredded image.
type SolveCmd struct {
	SolverFlags

	Input   string `arg:"" type:"existingfile" help:"Shredded image."`
	Output  string `short:"o" type:"path" help:"Output path. Default: input name with -sol before the extension."`
	Overlay string `type:"path" help:"Also write the solved image with seams and original strip positions drawn on it."`
	Open    bool   `help:"Open the result in the system image viewer."`
}

func (c *SolveCmd) Run(g *Globals) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	out := c.Output
	if out == "" {
		out = imgtools.SolutionPath(c.Input)
	}

	start := time.Now()
	m, err := imgtools.NewImageCache().LoadMatrix(c.Input)
	if err != nil {
		return err
	}
	debugf("loaded %s: %dx%d in %s", c.Input, m.Cols(), m.Rows(), time.Since(start))

	comp := &imgtools.FileCompositor{Path: out}
	if c.Open {
		comp.PostSave = viewer.New().Show
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start = time.Now()
	res, err := unshred.Reassemble(ctx, m, cfg, comp)
	if err != nil {
		return err
	}
	debugf("solved in %s: width=%d inferred=%v endpoints=%d/%d order=%v",
		time.Since(start), res.Width, res.WidthInferred, res.Leftmost, res.Rightmost, res.Order)

	if c.Overlay != "" {
		img, err := imgtools.SeamOverlay(comp.Image, res.Width, res.Order, "")
		if err != nil {
			return err
		}
		if err := imaging.Save(img, c.Overlay); err != nil {
			return fmt.Errorf("failed to save overlay: %w", err)
		}
	}

	how := "given"
	if res.WidthInferred {
		how = "inferred"
	}
	fmt.Fprintf(stdout, "%s: %d strips of width %d (%s)\n", out, len(res.Order), res.Width, how)
	fmt.Fprintf(stdout, "order: %v\n", res.Order)
	return nil
}

// WidthCmd prints seam positions and the estimated strip width.
type WidthCmd struct {
	SeamRatio float64 `default:"1.5" help:"Seam sensitivity."`
	SeamMode  string  `enum:"positions,spacing" default:"positions" help:"Estimate from seam positions or seam spacing (${enum})."`

	Input string `arg:"" type:"existingfile" help:"Shredded image."`
}

func (c *WidthCmd) Run(g *Globals) error {
	mode, err := unshred.ParseSeamMode(c.SeamMode)
	if err != nil {
		return err
	}
	m, err := imgtools.NewImageCache().LoadMatrix(c.Input)
	if err != nil {
		return err
	}

	seams, err := unshred.FindSeams(m, c.SeamRatio)
	if err != nil {
		return err
	}
	debugf("seams at %v", seams)
	w, err := unshred.EstimateStripWidth(m, c.SeamRatio, mode)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "width: %d\n", w)
	fmt.Fprintf(stdout, "seams: %v\n", seams)
	if m.Cols()%w != 0 {
		fmt.Fprintf(stdout, "warning: %d does not divide the image width %d\n", w, m.Cols())
	}
	return nil
}

// MatchCmd prints the match report.
type MatchCmd struct {
	SolverFlags

	Input string `arg:"" type:"existingfile" help:"Shredded image."`
}

func (c *MatchCmd) Run(g *Globals) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	m, err := imgtools.NewImageCache().LoadMatrix(c.Input)
	if err != nil {
		return err
	}

	width := cfg.StripWidth
	if width == 0 {
		if width, err = unshred.EstimateStripWidth(m, cfg.SeamRatio, cfg.SeamMode); err != nil {
			return fmt.Errorf("failed to infer strip width: %w", err)
		}
		debugf("inferred strip width %d", width)
	}
	ss, err := unshred.Partition(m, width)
	if err != nil {
		return err
	}
	if err := ss.MatchAll(cfg.MatchOptions()); err != nil {
		return err
	}
	// endpoints are reported even when the chain would not assemble
	report, err := ss.Report()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// ShredCmd produces a shuffled test image.
type ShredCmd struct {
	Width  int    `short:"w" required:"" help:"Strip width in pixels."`
	Seed   int64  `default:"1" help:"Shuffle seed."`
	Input  string `arg:"" type:"existingfile" help:"Image to shred."`
	Output string `arg:"" type:"path" help:"Where to write the shredded image."`
}

func (c *ShredCmd) Run(g *Globals) error {
	img, err := imgtools.NewImageCache().Load(c.Input)
	if err != nil {
		return err
	}
	res, err := imgtools.Shred(img, c.Width, c.Seed)
	if err != nil {
		return err
	}
	if err := imaging.Save(res.Image, c.Output); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.Output, err)
	}

	fmt.Fprintf(stdout, "perm: %v\n", res.Perm)
	fmt.Fprintf(stdout, "solution: %v\n", res.Solution())
	return nil
}

// VerifyCmd compares a solved image with the original.
type VerifyCmd struct {
	Solved   string `arg:"" type:"existingfile" help:"Solved image."`
	Original string `arg:"" type:"existingfile" help:"Original image."`
}

func (c *VerifyCmd) Run(g *Globals) error {
	cache := imgtools.NewImageCache()
	a, err := cache.Load(c.Solved)
	if err != nil {
		return err
	}
	b, err := cache.Load(c.Original)
	if err != nil {
		return err
	}

	res, err := imgtools.CompareImages(a, b)
	if err != nil {
		return err
	}
	switch {
	case !res.SameSize:
		return fmt.Errorf("%w: sizes do not match", errMismatch)
	case !res.Identical:
		return fmt.Errorf("%w: %d of %d pixels, first at column %d",
			errMismatch, res.PixelsDifferent, res.TotalPixels, res.FirstDiffColumn)
	}
	fmt.Fprintln(stdout, "identical")
	return nil
}

// ServeCmd runs the MCP server.
type ServeCmd struct {
	SolverFlags
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	srv := server.New(server.Options{Config: cfg, Version: Version, Debug: debugEnabled})
	return srv.Run()
}

// VersionCmd prints build information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(stdout, "unshred %s\n", Version)
	fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
	return nil
}
