package ephemeris

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("state vector not found for the given epoch")
	ErrEmptyStore = errors.New("no state vectors loaded")
)

// FormatError reports a feed that is not a usable OEM document.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed ephemeris feed: %s: %v", e.Reason, e.Err)
	}
	return "malformed ephemeris feed: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

type RangeKind int

const (
	RangeOffset RangeKind = iota + 1
	RangeLimit
	RangeCombined
)

func (k RangeKind) String() string {
	switch k {
	case RangeOffset:
		return "offset"
	case RangeLimit:
		return "limit"
	case RangeCombined:
		return "offset+limit"
	default:
		return "unknown"
	}
}

// RangeError is returned by Store.Slice when a paging bound is violated.
type RangeError struct {
	Kind   RangeKind
	Offset int
	Limit  int
	Count  int
}

func (e *RangeError) Error() string {
	switch e.Kind {
	case RangeOffset:
		return fmt.Sprintf("offset %d out of range: must be between 0 and %d", e.Offset, e.Count-1)
	case RangeLimit:
		return fmt.Sprintf("limit %d out of range: must be between 1 and %d", e.Limit, e.Count)
	default:
		return fmt.Sprintf("offset %d plus limit %d exceeds the %d available epochs", e.Offset, e.Limit, e.Count)
	}
}
