package lighting

import (
	"errors"
	"fmt"
)

// InvariantError reports a sample outside [0, 1]. Lighting data is
// trusted input, so this is never expected and is not retried.
type InvariantError struct {
	X, Y  int
	Value float32
}

func (e *InvariantError) Error() string {
	switch {
	case e.Value < 0:
		return fmt.Sprintf("lumcount %v at %d,%d below 0", e.Value, e.X, e.Y)
	case e.Value > 1:
		return fmt.Sprintf("lumcount %v at %d,%d above 1", e.Value, e.X, e.Y)
	default:
		return fmt.Sprintf("lumcount %v at %d,%d is not a number", e.Value, e.X, e.Y)
	}
}

// IsInvariant reports whether err wraps an *InvariantError.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// Validate returns the first present sample outside [0, 1].
func (g Grid) Validate() error {
	for x, col := range g {
		for y, s := range col {
			if !s.Present {
				continue
			}
			if !(s.Value >= 0 && s.Value <= 1) {
				return &InvariantError{X: x, Y: y, Value: s.Value}
			}
		}
	}
	return nil
}
