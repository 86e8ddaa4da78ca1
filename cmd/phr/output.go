// ABOUTME: Shared terminal output helpers for CLI commands.
// ABOUTME: Colors follow record status; widths are rune-aware.
package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/harperreed/phr/internal/dashboard"
	"github.com/harperreed/phr/internal/storage"
	"github.com/harperreed/phr/internal/vitals"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	blue   = color.New(color.FgBlue)
	faint  = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

func success(w io.Writer, format string, args ...any) {
	green.Fprintf(w, "✓ "+format+"\n", args...)
}

func warn(w io.Writer, format string, args ...any) {
	yellow.Fprintf(w, "⚠ "+format+"\n", args...)
}

// statusColor picks the color used for a classification.
func statusColor(s vitals.Status) *color.Color {
	switch s {
	case vitals.StatusHigh:
		return red
	case vitals.StatusLow:
		return blue
	case vitals.StatusHealthy:
		return green
	default:
		return faint
	}
}

// noRecords prints a hint and reports true when err means the user has no data.
func noRecords(w io.Writer, err error) bool {
	if !errors.Is(err, dashboard.ErrNoRecords) {
		return false
	}
	fmt.Fprintf(w, "No health records for %s yet. Add one with 'phr add'.\n", currentUser())
	return true
}

var zeroTime time.Time

func parseTime(s string) (time.Time, error) {
	t, err := storage.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
	}
	return t, nil
}

// parseRange parses optional --from/--to values.
func parseRange(from, to string) (time.Time, time.Time, error) {
	var f, t time.Time
	var err error
	if from != "" {
		if f, err = parseTime(from); err != nil {
			return f, t, err
		}
	}
	if to != "" {
		if t, err = parseTime(to); err != nil {
			return f, t, err
		}
	}
	if !f.IsZero() && !t.IsZero() && t.Before(f) {
		return f, t, fmt.Errorf("--to (%s) is before --from (%s)", to, from)
	}
	return f, t, nil
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}
