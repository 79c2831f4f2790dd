package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/nebula/internal/gesture"
)

// Recording is a captured sequence of classifier outputs, used to
// replay a tracking session against different tuning settings.
type Recording struct {
	ID        string
	Name      string
	StartedAt time.Time
	Frames    int
}

// Frame is a single classifier output within a recording.
type Frame struct {
	Seq         int
	TimestampMs int64
	Output      gesture.Output
	PalmX       float64
	PalmY       float64
}

// RecordingRepository provides CRUD operations for landmark recordings.
type RecordingRepository struct {
	db *sql.DB
}

// Recordings returns the recording repository for this store.
func (s *Store) Recordings() *RecordingRepository {
	return &RecordingRepository{db: s.db}
}

// Create inserts a new empty recording.
func (r *RecordingRepository) Create(rec *Recording) error {
	rec.StartedAt = time.Now()
	rec.Frames = 0

	_, err := r.db.Exec(
		`INSERT INTO recordings (id, name, started_at, frames) VALUES (?, ?, ?, 0)`,
		rec.ID, rec.Name, rec.StartedAt,
	)
	return err
}

// AppendFrame adds a frame to a recording and bumps its frame counter.
func (r *RecordingRepository) AppendFrame(recordingID string, f *Frame) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO recording_frames (recording_id, seq, timestamp_ms,
			grab_strength, palm_facing, hand_scale, valid, palm_x, palm_y)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recordingID, f.Seq, f.TimestampMs,
		f.Output.GrabStrength, f.Output.PalmFacing,
		f.Output.HandScale, f.Output.Valid,
		f.PalmX, f.PalmY,
	)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE recordings SET frames = frames + 1 WHERE id = ?`, recordingID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// Get retrieves a recording by its ID.
func (r *RecordingRepository) Get(id string) (*Recording, error) {
	rec := &Recording{}
	err := r.db.QueryRow(
		`SELECT id, name, started_at, frames FROM recordings WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Name, &rec.StartedAt, &rec.Frames)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List retrieves all recordings, newest first.
func (r *RecordingRepository) List() ([]*Recording, error) {
	rows, err := r.db.Query(`SELECT id, name, started_at, frames FROM recordings ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []*Recording
	for rows.Next() {
		rec := &Recording{}
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.StartedAt, &rec.Frames); err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recordings, nil
}

// GetFrames retrieves all frames of a recording in capture order.
func (r *RecordingRepository) GetFrames(recordingID string) ([]*Frame, error) {
	rows, err := r.db.Query(
		`SELECT seq, timestamp_ms, grab_strength, palm_facing, hand_scale,
			valid, palm_x, palm_y
		 FROM recording_frames WHERE recording_id = ? ORDER BY seq ASC`,
		recordingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []*Frame
	for rows.Next() {
		f := &Frame{}
		err := rows.Scan(
			&f.Seq, &f.TimestampMs,
			&f.Output.GrabStrength, &f.Output.PalmFacing,
			&f.Output.HandScale, &f.Output.Valid,
			&f.PalmX, &f.PalmY,
		)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}

// Delete removes a recording and its frames.
func (r *RecordingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
