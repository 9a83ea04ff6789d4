// Package player defines the playback collaborator the annotation engine
// talks to, and the status record it reports.
package player

import (
	"context"
	"errors"
	"fmt"
)

// DefaultEndThresholdMs is how close to the end playback must be to count
// as finished.
const DefaultEndThresholdMs = 100

// Controller drives the video surface. Calls may complete asynchronously and
// may fail; callers must not assume success.
type Controller interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, ms int64) error
}

// Reporter is implemented by players that can be asked for their position
// instead of only pushing it through events.
type Reporter interface {
	Status() Status
}

// ErrInvalidStatus is returned for status values that cannot come from a
// real player.
var ErrInvalidStatus = errors.New("invalid playback status")

// Status is the validated playback state reported by timeUpdate and
// statusChange events.
type Status struct {
	CurrentMs  int64
	DurationMs int64
	IsPlaying  bool
}

// NewStatus validates raw event values. Duration 0 means unknown. A current
// position past a known duration is clamped to the duration.
func NewStatus(currentMs, durationMs int64, isPlaying bool) (Status, error) {
	if currentMs < 0 || durationMs < 0 {
		return Status{}, fmt.Errorf("%w: current=%d duration=%d", ErrInvalidStatus, currentMs, durationMs)
	}
	if durationMs > 0 && currentMs > durationMs {
		currentMs = durationMs
	}
	return Status{CurrentMs: currentMs, DurationMs: durationMs, IsPlaying: isPlaying}, nil
}

// Ended reports whether playback sits within thresholdMs of a known end.
func (s Status) Ended(thresholdMs int64) bool {
	return s.DurationMs > 0 && s.CurrentMs >= s.DurationMs-thresholdMs
}
