package model

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to classify a failure returned by the engine.
var (
	// ErrParse indicates notation that could not be understood.
	ErrParse = errors.New("parse error")

	// ErrSquareValidation indicates a capture marker that disagrees with the
	// destination square's occupancy.
	ErrSquareValidation = errors.New("square validation error")

	// ErrIllegalMove indicates a move that violates the rules of chess:
	// no matching piece, ambiguity, self-check or a failed castling test.
	ErrIllegalMove = errors.New("illegal move")

	// ErrBoardAccess indicates an out-of-bounds coordinate.
	ErrBoardAccess = errors.New("invalid square")

	// ErrGameOver indicates a move submitted after checkmate or stalemate.
	ErrGameOver = errors.New("game over")

	// ErrTakeBack indicates an unusable takeback count.
	ErrTakeBack = errors.New("invalid takeback")

	// ErrPosition indicates a malformed or impossible start position.
	ErrPosition = errors.New("invalid position")
)

// Stage names the step of the turn state machine a move reached.
type Stage int

const (
	StageAwaitingMove Stage = iota
	StageParsed
	StageSourceResolved
	StageSimulated
	StageCommitted
	StageFinalized
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingMove:
		return "awaiting move"
	case StageParsed:
		return "parsed"
	case StageSourceResolved:
		return "source resolved"
	case StageSimulated:
		return "simulated"
	case StageCommitted:
		return "committed"
	case StageFinalized:
		return "finalized"
	}
	return "unknown"
}

// MoveError describes why a move was rejected. The engine state is
// unchanged whenever a MoveError is returned.
type MoveError struct {
	Notation string
	Stage    Stage // last stage the move completed
	Err      error // one of the Err* kinds
	Reason   string
}

func (e *MoveError) Error() string {
	if e.Notation == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("[%s]: %s", e.Notation, e.Reason)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func moveErr(notation string, stage Stage, kind error, format string, args ...any) *MoveError {
	return &MoveError{
		Notation: notation,
		Stage:    stage,
		Err:      kind,
		Reason:   fmt.Sprintf(format, args...),
	}
}

// ImportError reports the first history entry that could not be replayed.
type ImportError struct {
	Index    int // zero-based position in the imported list
	Notation string
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("move %d [%s] could not be made: %v", e.Index+1, e.Notation, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
