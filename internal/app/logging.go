package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"morphgrid/internal/core"
)

// SetupLogging installs a text handler at the named level as the shared
// logger and returns it.
func SetupLogging(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("app: log level: %w", err)
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	core.SetLogger(l)
	return l, nil
}
