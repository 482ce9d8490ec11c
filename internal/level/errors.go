package level

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no map exists for a level id.
var ErrNotFound = errors.New("level: not found")

// Content error codes.
const (
	CodeNoStart         = "NO_START"
	CodeTooManyRows     = "TOO_MANY_ROWS"
	CodeUnknownCell     = "UNKNOWN_CELL"
	CodeUnmappedCell    = "UNMAPPED_CELL"
	CodeNoPlayer        = "NO_PLAYER"
	CodeMultiplePlayers = "MULTIPLE_PLAYERS"
	CodeNoFlag          = "NO_FLAG"
	CodeMultipleFlags   = "MULTIPLE_FLAGS"
	CodeNoDistance      = "NO_DISTANCE"
)

// ContentError reports a malformed map. Row and Col are -1 when the
// problem is not tied to a single cell.
type ContentError struct {
	Code    string
	Row     int
	Col     int
	Cell    rune
	Message string
}

func (e *ContentError) Error() string {
	switch {
	case e.Row < 0:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	case e.Col < 0:
		return fmt.Sprintf("[%s] row %d: %s", e.Code, e.Row, e.Message)
	}
	return fmt.Sprintf("[%s] row %d col %d %q: %s", e.Code, e.Row, e.Col, e.Cell, e.Message)
}

// IOError wraps a failure to read a level's source.
type IOError struct {
	Level int
	Err   error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("level %d: %v", e.Level, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func contentErr(code string, msg string) *ContentError {
	return &ContentError{Code: code, Row: -1, Col: -1, Message: msg}
}
