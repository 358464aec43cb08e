// Package id formats human-readable journal reference numbers.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatReference returns a reference number like "2025-01-001".
func FormatReference(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseReference parses "2025-01-001" into year, month, seq.
func ParseReference(ref string) (year, month, seq int, err error) {
	parts := strings.SplitN(ref, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid reference format: %q", ref)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in reference %q: %w", ref, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in reference %q: %w", ref, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in reference %q: %w", ref, err)
	}

	return year, month, seq, nil
}
