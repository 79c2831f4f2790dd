package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/nebula/internal/control"
)

// Profile is a named control-feel preset stored in the database.
type Profile struct {
	ID        string
	Name      string
	Tuning    control.Tuning
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepository provides CRUD operations for tuning profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile into the database.
func (r *ProfileRepository) Create(p *Profile) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO profiles (id, name, grab_threshold, palm_facing_threshold,
			influence_radius, rotation_strength, push_pull_strength,
			camera_orbit_strength, camera_zoom_strength, zoom_smoothing,
			trail_fade, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name,
		p.Tuning.GrabThreshold, p.Tuning.PalmFacingThreshold,
		p.Tuning.InfluenceRadius, p.Tuning.RotationStrength,
		p.Tuning.PushPullStrength, p.Tuning.CameraOrbitStrength,
		p.Tuning.CameraZoomStrength, p.Tuning.ZoomSmoothing,
		p.Tuning.TrailFade, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

const profileColumns = `id, name, grab_threshold, palm_facing_threshold,
	influence_radius, rotation_strength, push_pull_strength,
	camera_orbit_strength, camera_zoom_strength, zoom_smoothing,
	trail_fade, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(
		&p.ID, &p.Name,
		&p.Tuning.GrabThreshold, &p.Tuning.PalmFacingThreshold,
		&p.Tuning.InfluenceRadius, &p.Tuning.RotationStrength,
		&p.Tuning.PushPullStrength, &p.Tuning.CameraOrbitStrength,
		&p.Tuning.CameraZoomStrength, &p.Tuning.ZoomSmoothing,
		&p.Tuning.TrailFade, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// GetByName retrieves a profile by its name.
func (r *ProfileRepository) GetByName(name string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE name = ?`, name)
	return scanProfile(row)
}

// List retrieves all profiles ordered by creation time, newest first.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Update updates an existing profile in the database.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE profiles SET name = ?, grab_threshold = ?,
			palm_facing_threshold = ?, influence_radius = ?,
			rotation_strength = ?, push_pull_strength = ?,
			camera_orbit_strength = ?, camera_zoom_strength = ?,
			zoom_smoothing = ?, trail_fade = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Tuning.GrabThreshold,
		p.Tuning.PalmFacingThreshold, p.Tuning.InfluenceRadius,
		p.Tuning.RotationStrength, p.Tuning.PushPullStrength,
		p.Tuning.CameraOrbitStrength, p.Tuning.CameraZoomStrength,
		p.Tuning.ZoomSmoothing, p.Tuning.TrailFade, p.UpdatedAt,
		p.ID,
	)
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

// Delete removes a profile from the database by its ID.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
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
