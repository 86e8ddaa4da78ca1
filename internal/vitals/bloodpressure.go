// ABOUTME: Blood pressure string decomposition.
// ABOUTME: Parses "sys/dia" text into integers, reporting absence instead of failing.
package vitals

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrMalformedBloodPressure marks a non-empty blood pressure that does not parse.
	ErrMalformedBloodPressure = errors.New("malformed blood pressure")
	// ErrMissingMetric marks a reading with no value.
	ErrMissingMetric = errors.New("metric missing")
)

var bpPattern = regexp.MustCompile(`^(\d+)/(\d+)`)

// ParseBloodPressure extracts systolic and diastolic values from s.
// ok is false when s is empty or does not start with <digits>/<digits>.
func ParseBloodPressure(s string) (systolic, diastolic int, ok bool) {
	m := bpPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	sys, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	dia, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return sys, dia, true
}

// CheckBloodPressure reports why s cannot be used as a reading, or nil.
func CheckBloodPressure(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrMissingMetric
	}
	if _, _, ok := ParseBloodPressure(s); !ok {
		return ErrMalformedBloodPressure
	}
	return nil
}

// SplitBloodPressure returns the parsed components as optional values,
// both nil when s does not parse.
func SplitBloodPressure(s string) (systolic, diastolic *float64) {
	sys, dia, ok := ParseBloodPressure(s)
	if !ok {
		return nil, nil
	}
	fs, fd := float64(sys), float64(dia)
	return &fs, &fd
}
