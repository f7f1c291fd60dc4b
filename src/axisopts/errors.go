package axisopts

import (
	"errors"
	"fmt"

	"github.com/iafilius/chartviewport/src/types"
)

// ErrInvalidRangeOption indicates a range that is not a [low, high] pair,
// has a non-finite bound, or has low > high.
var ErrInvalidRangeOption = errors.New("invalid range option")

// RangeOptionError describes which key carried the bad range.
type RangeOptionError struct {
	Key    string // "dateWindow", "valueRange", "axes.y2.valueRange", ...
	Range  types.Range
	Reason string
}

func (e *RangeOptionError) Error() string {
	return fmt.Sprintf("invalid range option %s %v: %s", e.Key, e.Range, e.Reason)
}

func (e *RangeOptionError) Unwrap() error {
	return ErrInvalidRangeOption
}

// NewRangeOptionError creates a new RangeOptionError.
func NewRangeOptionError(key string, r types.Range, reason string) *RangeOptionError {
	return &RangeOptionError{Key: key, Range: r, Reason: reason}
}
