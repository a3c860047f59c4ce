package pie

import (
	"errors"
	"fmt"
)

// ErrOutOfCapacity indicates more slices than available label slots.
var ErrOutOfCapacity = errors.New("out of label capacity")

// ErrInvalidSliceSet indicates slice percentages that cannot form a chart.
var ErrInvalidSliceSet = errors.New("invalid slice set")

// CapacityError reports which slices did not fit into the label slots.
type CapacityError struct {
	Slots   int
	Dropped []int // indices of slices beyond the last slot
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: %d slots, slices %v do not fit", ErrOutOfCapacity, e.Slots, e.Dropped)
}

func (e *CapacityError) Unwrap() error {
	return ErrOutOfCapacity
}

// SliceError describes why a slice set was rejected.
type SliceError struct {
	Index  int // offending slice, -1 for the set as a whole
	Reason string
}

func (e *SliceError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidSliceSet, e.Reason)
	}
	return fmt.Sprintf("%v: slice %d: %s", ErrInvalidSliceSet, e.Index, e.Reason)
}

func (e *SliceError) Unwrap() error {
	return ErrInvalidSliceSet
}

// SurfaceError wraps a failure of the drawing surface.
type SurfaceError struct {
	Op    string // "clear", "reveal", "label" or "show"
	Slice int
	Err   error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("surface %s failed on slice %d: %v", e.Op, e.Slice, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}
