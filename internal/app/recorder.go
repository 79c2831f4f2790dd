package app

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/nebula/internal/detector"
	"github.com/ayusman/nebula/internal/gesture"
	"github.com/ayusman/nebula/internal/store"
)

// ErrRecorderBusy is returned when starting a recording while one is active.
var ErrRecorderBusy = errors.New("a recording is already in progress")

// Recorder captures per-frame classifier output into the store so a
// tracking session can be replayed against different tuning settings.
type Recorder struct {
	repo *store.RecordingRepository

	mu      sync.Mutex
	active  *store.Recording
	seq     int
	started time.Time
}

// NewRecorder creates a Recorder writing to the given repository.
func NewRecorder(repo *store.RecordingRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Start begins a new named recording and returns its ID.
func (r *Recorder) Start(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return "", ErrRecorderBusy
	}

	rec := &store.Recording{
		ID:   uuid.New().String(),
		Name: name,
	}
	if err := r.repo.Create(rec); err != nil {
		return "", err
	}

	r.active = rec
	r.seq = 0
	r.started = time.Now()
	return rec.ID, nil
}

// Record appends one classifier frame to the active recording. It is a
// no-op when nothing is being recorded.
func (r *Recorder) Record(out gesture.Output, palm detector.Point3D, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return nil
	}

	frame := &store.Frame{
		Seq:         r.seq,
		TimestampMs: now.Sub(r.started).Milliseconds(),
		Output:      out,
		PalmX:       palm.X,
		PalmY:       palm.Y,
	}
	if err := r.repo.AppendFrame(r.active.ID, frame); err != nil {
		return err
	}

	r.seq++
	return nil
}

// Stop ends the active recording. Stopping when idle is a no-op.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = nil
	r.seq = 0
	return nil
}

// Active returns the ID of the recording in progress, or "" when idle.
func (r *Recorder) Active() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == nil {
		return ""
	}
	return r.active.ID
}
