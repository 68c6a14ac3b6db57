package common

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const outputPrefix = "lighting_"

var (
	ErrNoFilename      = errors.New("path did not have filename")
	ErrInvalidFilename = errors.New("path did not have valid UTF-8 filename")
	ErrOutputCollision = errors.New("output path collides")
)

// OutputPath derives the PNG written for input: lighting_<stem><suffix>.png
// in the same directory. It never returns input itself.
func OutputPath(input, suffix string) (string, error) {
	if input == "" {
		return "", ErrNoFilename
	}
	base := filepath.Base(input)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", ErrNoFilename
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		// Dotfiles like ".png" keep their whole name as stem.
		stem = base
	}
	if !utf8.ValidString(stem) || !utf8.ValidString(suffix) {
		return "", ErrInvalidFilename
	}

	out := filepath.Join(filepath.Dir(input), outputPrefix+stem+suffix+".png")
	if filepath.Clean(out) == filepath.Clean(input) {
		return "", fmt.Errorf("%w with input %s", ErrOutputCollision, input)
	}
	return out, nil
}

// DepthSuffix is appended to the stem when one source fans out over
// several z-levels.
func DepthSuffix(level fmt.Stringer) string {
	return "_" + level.String()
}
