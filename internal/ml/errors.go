package ml

import "fmt"

// DataError marks malformed or insufficient training data. It is fatal to a
// training run and never silently coerced.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "training data error: " + e.Reason
}

func dataErrorf(format string, args ...any) error {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// VersionError marks an artifact bundle whose schema version this build does
// not understand. Loading fails rather than risking wrong predictions from a
// stale artifact.
type VersionError struct {
	Got  int
	Want int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("artifact schema version mismatch: bundle has v%d, this build reads v%d", e.Got, e.Want)
}
