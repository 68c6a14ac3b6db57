// Package overlay darkens map images according to lighting info.
package overlay

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/yegorkir/lightmask/internal/common"
	"github.com/yegorkir/lightmask/internal/imageutil"
	"github.com/yegorkir/lightmask/internal/lighting"
)

type options struct {
	Input   string
	Token   string
	DryRun  bool
	Verbose bool
	Targets []string
}

// Result describes one written output.
type Result struct {
	Size  [2]int
	Bytes int64
	Stats imageutil.Stats
}

func Run(args []string) error {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) error {
	opt, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, opt.Verbose)

	targets, err := common.ParseTargets(opt.Targets, opt.Token)
	if err != nil {
		return fmt.Errorf("failed to parse path args: %w", err)
	}

	info, err := lighting.Read(opt.Input)
	if err != nil {
		return fmt.Errorf("failed to read lighting info from %s: %w", opt.Input, err)
	}
	logger.Debug("loaded lighting info", "path", opt.Input, "kind", info.Kind().String(), "grids", info.Len())

	jobs, err := common.Plan(targets, info, opt.Token)
	if err != nil {
		return fmt.Errorf("failed to plan outputs: %w", err)
	}

	if opt.DryRun {
		fmt.Fprintln(stdout, "Running in dry-run mode. No files will be written.")
		for _, job := range jobs {
			fmt.Fprintf(stdout, "[DRY] %s -> %s (z=%s)\n", job.Source, job.Output, job.Depth)
		}
		return nil
	}

	start := time.Now()
	for _, job := range jobs {
		res, err := Process(info, job, logger)
		if err != nil {
			return fmt.Errorf("failed to handle %s (z=%s): %w", job.Source, job.Depth, err)
		}
		fmt.Fprintf(stdout, "[OK] %s -> %s (%dx%d) z=%s cells=%d size=%.1fKB\n",
			job.Source,
			job.Output,
			res.Size[0],
			res.Size[1],
			job.Depth,
			res.Stats.Cells,
			float64(res.Bytes)/1024,
		)
	}

	fmt.Fprintf(stdout, "Done in %s.\n", time.Since(start).Truncate(time.Millisecond))
	return nil
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("lightmask", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "Lighting info JSON file.")
	fs.StringVar(input, "i", "", "Lighting info JSON file.")
	token := fs.String("token", common.DefaultToken, "Placeholder replaced by each z-level in target paths.")
	dryRun := fs.Bool("dry-run", false, "Print planned outputs without touching files.")
	verbose := fs.Bool("verbose", false, "Log per-image diagnostics to stderr.")
	fs.BoolVar(verbose, "v", false, "Log per-image diagnostics to stderr.")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: lightmask -i <lighting.json> [options] <image>[=<z>] ...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *input == "" {
		return options{}, errors.New("--input is required")
	}
	if fs.NArg() == 0 {
		return options{}, errors.New("no target images given")
	}
	if *token == "" {
		return options{}, errors.New("token must not be empty")
	}

	return options{
		Input:   *input,
		Token:   *token,
		DryRun:  *dryRun,
		Verbose: *verbose,
		Targets: fs.Args(),
	}, nil
}

// Process darkens one freshly decoded copy of job.Source with the grid
// for job.Depth and writes it to job.Output.
func Process(info *lighting.Info, job common.Job, logger *slog.Logger) (Result, error) {
	grid, ok := info.Select(job.Depth)
	if !ok {
		return Result{}, fmt.Errorf("failed to get lighting info for z=%s: %w", job.Depth, lighting.ErrNoGrid)
	}

	img, err := imageutil.Load(job.Source)
	if err != nil {
		return Result{}, err
	}

	stats, err := imageutil.ApplyLighting(img.Image, grid)
	if err != nil {
		return Result{}, fmt.Errorf("failed to apply lighting: %w", err)
	}

	size, err := imageutil.SavePNG(img.Image, job.Output)
	if err != nil {
		return Result{}, fmt.Errorf("failed to save output image to %s: %w", job.Output, err)
	}

	logger.Debug("applied lighting",
		"source", job.Source,
		"format", img.Format,
		"z", job.Depth.String(),
		"columns", grid.Width(),
		"cells", stats.Cells,
		"lit", stats.Lit,
		"absent", stats.Absent,
		"pixels", stats.Pixels,
	)
	return Result{Size: img.Size(), Bytes: size, Stats: stats}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
