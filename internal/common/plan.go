package common

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yegorkir/lightmask/internal/lighting"
)

var (
	ErrAmbiguousTargets = errors.New("cannot match files to z-levels")
	ErrNoLevels         = errors.New("lighting info has no z-levels")
)

// Job is one source image to darken with the grid at Depth, written to Output.
type Job struct {
	Source string
	Output string
	Depth  lighting.Depth
}

// Plan expands targets into jobs against info.
//
// A templated target yields one job per z-level. When every target is a
// bare path and info holds several keyed levels, a single path fans out
// over all levels and N paths pair with N levels in ascending order. Any
// other target passes through unchanged.
func Plan(targets []Target, info *lighting.Info, token string) ([]Job, error) {
	levels := info.Levels()

	var jobs []Job
	if fanOut(targets, info, levels) {
		switch len(targets) {
		case 1:
			src := targets[0].Path
			for _, lvl := range levels {
				job, err := newJob(src, lvl, DepthSuffix(lvl))
				if err != nil {
					return nil, err
				}
				jobs = append(jobs, job)
			}
		case len(levels):
			for i, lvl := range levels {
				job, err := newJob(targets[i].Path, lvl, "")
				if err != nil {
					return nil, err
				}
				jobs = append(jobs, job)
			}
		default:
			return nil, fmt.Errorf("%w: %d files for %d z-levels", ErrAmbiguousTargets, len(targets), len(levels))
		}
		return jobs, checkOutputs(jobs)
	}

	for _, t := range targets {
		if !t.Template {
			job, err := newJob(t.Path, t.Depth, "")
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
			continue
		}
		if len(levels) == 0 {
			return nil, fmt.Errorf("%w to fill template %s", ErrNoLevels, t.Path)
		}
		for _, lvl := range levels {
			job, err := newJob(strings.ReplaceAll(t.Path, token, lvl.String()), lvl, "")
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, checkOutputs(jobs)
}

func fanOut(targets []Target, info *lighting.Info, levels []lighting.Depth) bool {
	if info.Kind() != lighting.Keyed || len(levels) < 2 || len(targets) == 0 {
		return false
	}
	for _, t := range targets {
		if !t.bare() {
			return false
		}
	}
	return true
}

func newJob(src string, depth lighting.Depth, suffix string) (Job, error) {
	out, err := OutputPath(src, suffix)
	if err != nil {
		return Job{}, fmt.Errorf("failed to derive output for %s: %w", src, err)
	}
	return Job{Source: src, Output: out, Depth: depth}, nil
}

// checkOutputs rejects plans where two jobs write the same file or a job
// writes over another job's source.
func checkOutputs(jobs []Job) error {
	sources := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		sources[filepath.Clean(j.Source)] = true
	}
	written := make(map[string]Job, len(jobs))
	for _, j := range jobs {
		out := filepath.Clean(j.Output)
		if prev, ok := written[out]; ok {
			return fmt.Errorf("%w: %s (z=%s) and %s (z=%s) both write %s",
				ErrOutputCollision, prev.Source, prev.Depth, j.Source, j.Depth, j.Output)
		}
		if sources[out] {
			return fmt.Errorf("%w: %s is also an input", ErrOutputCollision, j.Output)
		}
		written[out] = j
	}
	return nil
}
