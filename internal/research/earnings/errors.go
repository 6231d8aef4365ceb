package earnings

import (
	"errors"
	"fmt"

	"earnings-sentiment/internal/api"
)

var (
	// ErrSourceUnavailable means the calendar could not be fetched or parsed. Fatal to a run.
	ErrSourceUnavailable = errors.New("earnings calendar unavailable")
	// ErrEmptyResult means the calendar had no announcements in the window.
	ErrEmptyResult = errors.New("no earnings announcements in window")
	// ErrProviderError is a per-ticker news fetch failure.
	ErrProviderError = errors.New("news provider error")
	// ErrScoringService is a per-ticker scoring call failure.
	ErrScoringService = errors.New("scoring service error")
	// ErrTimeout is joined to one of the above when a deadline expired.
	ErrTimeout = errors.New("timeout")
)

// Failure kinds used in diagnostic log lines.
const (
	KindProviderError  = "ProviderError"
	KindScoringService = "ScoringServiceError"
	KindMalformedScore = "MalformedScore"
	KindTimeout        = "Timeout"
)

// classify wraps err with kind, and with ErrTimeout when err is a timeout.
func classify(kind error, err error) error {
	if api.IsTimeout(err) {
		return fmt.Errorf("%w: %w: %w", kind, ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

func failureKind(base string, err error) string {
	if errors.Is(err, ErrTimeout) {
		return base + "/" + KindTimeout
	}
	return base
}
