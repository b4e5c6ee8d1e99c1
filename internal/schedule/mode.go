package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNegativeDuration is returned when a phase duration is below zero.
	ErrNegativeDuration = errors.New("schedule: negative duration")
	// ErrUnknownMode is returned for transition mode names that do not parse.
	ErrUnknownMode = errors.New("schedule: unknown transition mode")
)

// Mode selects how the next function is chosen at the end of a steady phase.
type Mode uint8

const (
	// Cycle steps to the next function in enumeration order.
	Cycle Mode = iota
	// Random picks uniformly among all other functions.
	Random
)

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case Cycle:
		return "cycle"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode resolves a case-insensitive mode name.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cycle":
		return Cycle, nil
	case "random":
		return Random, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Phase is the scheduler sub-state.
type Phase uint8

const (
	// Steady shows a single function.
	Steady Phase = iota
	// Transitioning blends from the previous function into the current one.
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "steady"
}
