// Package interfaces defines common interface types used across the application.
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/chrissnell/watchface/internal/face"
)

// ErrBusy is returned when the host's event queue is full
var ErrBusy = errors.New("event queue full")

// FaceState is a read-only view of the running face, safe to hand to other goroutines
type FaceState struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind"`
	State       string            `json:"state"`
	ClockType   string            `json:"clock_type"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	TZOffset    int               `json:"tz_offset"`
	Palette     string            `json:"palette"`
	Labels      map[string]string `json:"labels"`
	Seq         uint64            `json:"seq"`
	LastFrameAt time.Time         `json:"last_frame_at"`
	Stats       face.Stats        `json:"stats"`
	Outputs     []string          `json:"outputs"`
}

// FaceHost is implemented by the application and driven by the management API.
// Mutating calls are queued onto the host's tick goroutine.
type FaceHost interface {
	ReloadConfiguration(ctx context.Context) error
	LongPress(ctx context.Context) error
	FaceState() FaceState
	FramePNG() ([]byte, error)
}
