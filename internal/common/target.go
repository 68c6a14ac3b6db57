package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yegorkir/lightmask/internal/lighting"
)

// DefaultToken is replaced by each z-level in templated target paths.
const DefaultToken = "{z}"

// Target is one positional argument: a path, an optional explicit depth,
// and whether the path is a template to expand per z-level.
type Target struct {
	Path     string
	Depth    lighting.Depth
	Template bool
}

// ParseTarget parses "<path>" or "<path>=<z>". An explicit depth is
// substituted into a templated path right away.
func ParseTarget(arg, token string) (Target, error) {
	arg = strings.TrimSpace(arg)
	var t Target
	if i := strings.LastIndex(arg, "="); i >= 0 {
		z := strings.TrimSpace(arg[i+1:])
		level, err := strconv.ParseUint(z, 10, 8)
		if err != nil {
			return Target{}, fmt.Errorf("failed to parse '%s' as numeric z-level: %w", z, err)
		}
		t.Path = strings.TrimSpace(arg[:i])
		t.Depth = lighting.At(uint8(level))
	} else {
		t.Path = arg
	}
	if t.Path == "" {
		return Target{}, fmt.Errorf("empty path in %q", arg)
	}

	if token != "" && strings.Contains(t.Path, token) {
		if t.Depth.Set {
			t.Path = strings.ReplaceAll(t.Path, token, t.Depth.String())
		} else {
			t.Template = true
		}
	}
	return t, nil
}

// ParseTargets parses every argument, failing on the first bad one.
func ParseTargets(args []string, token string) ([]Target, error) {
	targets := make([]Target, 0, len(args))
	for _, arg := range args {
		t, err := ParseTarget(arg, token)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func (t Target) bare() bool {
	return !t.Template && !t.Depth.Set
}
