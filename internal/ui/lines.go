// Package ui renders the heads-up display over the graph view.
package ui

import (
	"fmt"

	"morphgrid/internal/core"
)

// Lines formats a snapshot as "Label: value" lines under group headers.
func Lines(s core.ParameterSnapshot) []string {
	var lines []string
	for _, g := range s.Groups {
		lines = append(lines, g.Name)
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %s: %s", p.Label, p.Value))
		}
	}
	return lines
}
