package app

import (
	"fmt"

	"morphgrid/internal/core"
	"morphgrid/internal/ui"
)

// SummaryLines formats the final parameter snapshot of a run.
func SummaryLines(f Frame) []string {
	lines := ui.Lines(f.Parameters())
	for i, l := range lines {
		lines[i] = fmt.Sprintf("  %s", l)
	}
	return lines
}

// Title returns the window title for a snapshot: the shown function or morph
// and the strategy.
func Title(s core.ParameterSnapshot) string {
	title := "morphgrid"
	if p, ok := s.Lookup("function"); ok {
		title += ": " + p.Value
	}
	if p, ok := s.Lookup("strategy"); ok {
		title += " (" + p.Value + ")"
	}
	return title
}
