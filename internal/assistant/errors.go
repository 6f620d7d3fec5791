package assistant

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyQuestion       = errors.New("assistant: question is required")
	ErrMalformedResolution = errors.New("assistant: malformed resolution")
	ErrDataConsistency     = errors.New("assistant: inconsistent supply data")
	ErrIncompleteContext   = errors.New("assistant: incomplete answer context")
	ErrEmptyAnswer         = errors.New("assistant: empty answer")
	ErrOracleFailed        = errors.New("assistant: oracle request failed")
	ErrStoreFailed         = errors.New("assistant: store request failed")
)

// MalformedResolutionError is returned when the resolver output is not a
// non-negative integer.
type MalformedResolutionError struct {
	Raw string
}

func (e *MalformedResolutionError) Error() string {
	return fmt.Sprintf("assistant: malformed resolution %q", e.Raw)
}

func (e *MalformedResolutionError) Is(target error) bool {
	return target == ErrMalformedResolution
}

// DataConsistencyError is returned when a resolved id does not match exactly
// one supply row.
type DataConsistencyError struct {
	SupplyID int64
	Rows     int
}

func (e *DataConsistencyError) Error() string {
	return fmt.Sprintf("assistant: supply %d matched %d rows, want 1", e.SupplyID, e.Rows)
}

func (e *DataConsistencyError) Is(target error) bool {
	return target == ErrDataConsistency
}

type IncompleteContextError struct {
	Missing []string
}

func (e *IncompleteContextError) Error() string {
	return "assistant: answer context missing " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteContextError) Is(target error) bool {
	return target == ErrIncompleteContext
}
