package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Markers classify failures; test with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrFilesystem    = errors.New("filesystem error")
	ErrArchive       = errors.New("archive error")
	ErrLocked        = errors.New("root locked")
)

// Wrap returns "marker: stage: operation: message: err" with empty parts
// omitted. Both marker and err stay reachable through errors.Is. A nil marker
// means ErrFilesystem.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrFilesystem
	}
	detail := joinNonEmpty(stage, operation, message)
	if detail == "" {
		detail = "operation failure"
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// IsFatal reports whether err should abort a run. Archive failures are rolled
// back and counted instead.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrArchive)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ": ")
}
