package schedule

import (
	"fmt"

	"morphgrid/internal/core"
	"morphgrid/internal/surface"
)

// Config holds the scheduler inputs. It is applied once at construction and
// may only be replaced between frames.
type Config struct {
	// FunctionDuration is how long a single function is shown, in seconds.
	FunctionDuration float32
	// TransitionDuration is how long a morph between two functions lasts.
	TransitionDuration float32
	Start              surface.FunctionID
	Mode               Mode
	// Seed feeds the generator used by Random mode.
	Seed int64
}

// DefaultConfig returns one second per phase, cycling from Wave.
func DefaultConfig() Config {
	return Config{
		FunctionDuration:   1,
		TransitionDuration: 1,
		Start:              surface.Wave,
		Mode:               Cycle,
		Seed:               1,
	}
}

// Validate rejects negative durations and unknown modes. An out-of-range
// Start is not an error; New and SetConfig replace it with Wave.
func (c Config) Validate() error {
	if c.FunctionDuration < 0 {
		return fmt.Errorf("%w: function duration %g", ErrNegativeDuration, c.FunctionDuration)
	}
	if c.TransitionDuration < 0 {
		return fmt.Errorf("%w: transition duration %g", ErrNegativeDuration, c.TransitionDuration)
	}
	if c.Mode != Cycle && c.Mode != Random {
		return fmt.Errorf("%w: %d", ErrUnknownMode, uint8(c.Mode))
	}
	return nil
}

// State is a read-only snapshot of the scheduler.
type State struct {
	Phase Phase
	// Current is the function shown while steady, or the morph target.
	Current surface.FunctionID
	// Previous is the morph source; only meaningful while transitioning.
	Previous surface.FunctionID
	// Elapsed is the time spent in the current phase.
	Elapsed float32
	// Progress is Elapsed over the transition duration, in [0, 1].
	Progress float32
}

// Transitioning reports whether the state blends two functions.
func (s State) Transitioning() bool { return s.Phase == Transitioning }

// Scheduler decides which function is shown and when to morph to the next.
type Scheduler struct {
	cfg      Config
	phase    Phase
	current  surface.FunctionID
	previous surface.FunctionID
	elapsed  float32
	rng      *core.RNG
}

// sanitize validates cfg and maps an out-of-range start function to Wave.
func sanitize(cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if start := surface.Sanitize(cfg.Start); start != cfg.Start {
		core.Logger().Warn("start function out of range, using default",
			"start", uint8(cfg.Start), "function", start.String())
		cfg.Start = start
	}
	return cfg, nil
}

// New validates cfg and returns a scheduler in the steady phase.
func New(cfg Config) (*Scheduler, error) {
	cfg, err := sanitize(cfg)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{cfg: cfg, rng: core.NewRNG(cfg.Seed)}
	s.Reset()
	return s, nil
}

// SetConfig replaces the configuration without resetting the phase. Call it
// only between frames.
func (s *Scheduler) SetConfig(cfg Config) error {
	cfg, err := sanitize(cfg)
	if err != nil {
		return err
	}
	if cfg.Seed != s.cfg.Seed {
		s.rng.Reseed(cfg.Seed)
	}
	s.cfg = cfg
	return nil
}

// Reset returns to the steady phase on the configured start function.
func (s *Scheduler) Reset() {
	s.phase = Steady
	s.current = s.cfg.Start
	s.previous = s.cfg.Start
	s.elapsed = 0
	s.rng.Reseed(s.cfg.Seed)
}

// Advance accumulates dt and flips at most one phase. It reports whether a
// flip happened. Negative deltas are treated as zero.
func (s *Scheduler) Advance(dt float32) bool {
	if dt > 0 {
		s.elapsed += dt
	}
	switch s.phase {
	case Transitioning:
		if s.elapsed < s.cfg.TransitionDuration {
			return false
		}
		s.elapsed -= s.cfg.TransitionDuration
		s.phase = Steady
		core.Logger().Debug("transition finished",
			"function", s.current.String(), "carry", s.elapsed)
		return true
	default:
		if s.elapsed < s.cfg.FunctionDuration {
			return false
		}
		// The overflow past the steady phase is dropped so every morph
		// starts at progress zero.
		s.elapsed = 0
		s.phase = Transitioning
		s.previous = s.current
		s.current = s.selectNext(s.current)
		core.Logger().Debug("transition started",
			"from", s.previous.String(), "to", s.current.String(), "mode", s.cfg.Mode.String())
		return true
	}
}

func (s *Scheduler) selectNext(id surface.FunctionID) surface.FunctionID {
	if s.cfg.Mode == Random {
		return surface.RandomOtherThan(id, s.rng.Source())
	}
	return surface.Next(id)
}

// Progress returns the raw transition progress in [0, 1]. It is zero while
// steady. A zero transition duration reports full progress.
func (s *Scheduler) Progress() float32 {
	if s.phase != Transitioning {
		return 0
	}
	if s.cfg.TransitionDuration <= 0 {
		return 1
	}
	p := s.elapsed / s.cfg.TransitionDuration
	if p > 1 {
		return 1
	}
	return p
}

// State returns a snapshot of the scheduler.
func (s *Scheduler) State() State {
	return State{
		Phase:    s.phase,
		Current:  s.current,
		Previous: s.previous,
		Elapsed:  s.elapsed,
		Progress: s.Progress(),
	}
}
