package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/nebula/internal/control"
	"github.com/ayusman/nebula/internal/gesture"
)

// newTestStore creates a new Store backed by a throwaway database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nebula-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "nebula-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatal("database file should not exist before creating store")
	}

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file should exist after creating store")
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"profiles", "recordings", "recording_frames", "settings"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	var fkEnabled int
	if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("failed to check foreign keys pragma: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("foreign keys should be enabled")
	}
}

func TestProfileRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{
		ID:     "profile-1",
		Name:   "heavy-hand",
		Tuning: control.DefaultTuning(),
	}
	profile.Tuning.GrabThreshold = 0.2
	profile.Tuning.CameraOrbitStrength = 3.5

	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	if profile.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}
	if profile.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set after create")
	}

	retrieved, err := repo.GetByID("profile-1")
	if err != nil {
		t.Fatalf("failed to get profile by ID: %v", err)
	}
	if retrieved.Name != "heavy-hand" {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, "heavy-hand")
	}
	if retrieved.Tuning != profile.Tuning {
		t.Errorf("Tuning mismatch: got %+v, want %+v", retrieved.Tuning, profile.Tuning)
	}

	byName, err := repo.GetByName("heavy-hand")
	if err != nil {
		t.Fatalf("failed to get profile by name: %v", err)
	}
	if byName.ID != profile.ID {
		t.Errorf("GetByName returned wrong profile: got ID %q, want %q", byName.ID, profile.ID)
	}
}

func TestProfileRepository_Create_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	p1 := &Profile{ID: "profile-1", Name: "default", Tuning: control.DefaultTuning()}
	p2 := &Profile{ID: "profile-2", Name: "default", Tuning: control.DefaultTuning()}

	if err := repo.Create(p1); err != nil {
		t.Fatalf("failed to create first profile: %v", err)
	}
	if err := repo.Create(p2); err == nil {
		t.Error("creating a second profile with the same name should fail")
	}
}

func TestProfileRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	for _, name := range []string{"one", "two", "three"} {
		p := &Profile{ID: "profile-" + name, Name: name, Tuning: control.DefaultTuning()}
		if err := repo.Create(p); err != nil {
			t.Fatalf("failed to create profile %q: %v", name, err)
		}
	}

	profiles, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list profiles: %v", err)
	}
	if len(profiles) != 3 {
		t.Errorf("expected 3 profiles, got %d", len(profiles))
	}
}

func TestProfileRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{ID: "profile-1", Name: "default", Tuning: control.DefaultTuning()}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	profile.Name = "renamed"
	profile.Tuning.ZoomSmoothing = 0.5
	if err := repo.Update(profile); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	retrieved, err := repo.GetByID("profile-1")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if retrieved.Name != "renamed" {
		t.Errorf("Name mismatch after update: got %q, want %q", retrieved.Name, "renamed")
	}
	if retrieved.Tuning.ZoomSmoothing != 0.5 {
		t.Errorf("ZoomSmoothing mismatch after update: got %f, want 0.5", retrieved.Tuning.ZoomSmoothing)
	}
}

func TestProfileRepository_Update_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	p := &Profile{ID: "missing", Name: "ghost", Tuning: control.DefaultTuning()}
	if err := repo.Update(p); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProfileRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Profiles()

	profile := &Profile{ID: "profile-1", Name: "default", Tuning: control.DefaultTuning()}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}

	if err := repo.Delete("profile-1"); err != nil {
		t.Fatalf("failed to delete profile: %v", err)
	}

	if _, err := repo.GetByID("profile-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete("profile-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting again should return ErrNotFound, got %v", err)
	}
}

func TestRecordingRepository_CreateAndAppend(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	rec := &Recording{ID: "rec-1", Name: "grab-and-orbit"}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("failed to create recording: %v", err)
	}
	if rec.StartedAt.IsZero() {
		t.Error("StartedAt should be set after create")
	}

	for i := 0; i < 3; i++ {
		f := &Frame{
			Seq:         i,
			TimestampMs: int64(i * 33),
			Output: gesture.Output{
				GrabStrength: 0.1 * float64(i),
				PalmFacing:   true,
				HandScale:    0.12,
				Valid:        true,
			},
			PalmX: 0.5,
			PalmY: 0.6,
		}
		if err := repo.AppendFrame("rec-1", f); err != nil {
			t.Fatalf("failed to append frame %d: %v", i, err)
		}
	}

	retrieved, err := repo.Get("rec-1")
	if err != nil {
		t.Fatalf("failed to get recording: %v", err)
	}
	if retrieved.Frames != 3 {
		t.Errorf("frame counter mismatch: got %d, want 3", retrieved.Frames)
	}

	frames, err := repo.GetFrames("rec-1")
	if err != nil {
		t.Fatalf("failed to get frames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Seq != i {
			t.Errorf("frame %d out of order: got seq %d", i, f.Seq)
		}
	}
	if !frames[1].Output.PalmFacing || !frames[1].Output.Valid {
		t.Error("boolean classifier fields should round-trip")
	}
	if frames[2].Output.GrabStrength != 0.2 {
		t.Errorf("GrabStrength mismatch: got %f, want 0.2", frames[2].Output.GrabStrength)
	}
}

func TestRecordingRepository_AppendFrame_MissingRecording(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	f := &Frame{Seq: 0, TimestampMs: 0}
	if err := repo.AppendFrame("missing", f); err == nil {
		t.Error("appending to a missing recording should fail")
	}
}

func TestRecordingRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	for _, id := range []string{"rec-1", "rec-2"} {
		if err := repo.Create(&Recording{ID: id, Name: id}); err != nil {
			t.Fatalf("failed to create recording %q: %v", id, err)
		}
	}

	recordings, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list recordings: %v", err)
	}
	if len(recordings) != 2 {
		t.Errorf("expected 2 recordings, got %d", len(recordings))
	}
}

func TestRecordingRepository_Delete_CascadesFrames(t *testing.T) {
	s := newTestStore(t)
	repo := s.Recordings()

	rec := &Recording{ID: "rec-1", Name: "doomed"}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("failed to create recording: %v", err)
	}
	if err := repo.AppendFrame("rec-1", &Frame{Seq: 0}); err != nil {
		t.Fatalf("failed to append frame: %v", err)
	}

	if err := repo.Delete("rec-1"); err != nil {
		t.Fatalf("failed to delete recording: %v", err)
	}

	var count int
	err := s.DB().QueryRow("SELECT COUNT(*) FROM recording_frames WHERE recording_id = ?", "rec-1").Scan(&count)
	if err != nil {
		t.Fatalf("failed to count frames: %v", err)
	}
	if count != 0 {
		t.Errorf("frames should be deleted with the recording, found %d", count)
	}

	if _, err := repo.Get("rec-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSettingsRepository_SetGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unset key, got %v", err)
	}

	if err := repo.Set(SettingActiveTuning, `{"grabThreshold":0.2}`); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	got, err := repo.Get(SettingActiveTuning)
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if got != `{"grabThreshold":0.2}` {
		t.Errorf("value = %q", got)
	}

	// Setting again replaces, not duplicates
	if err := repo.Set(SettingActiveTuning, `{"grabThreshold":0.3}`); err != nil {
		t.Fatalf("failed to overwrite setting: %v", err)
	}
	got, _ = repo.Get(SettingActiveTuning)
	if got != `{"grabThreshold":0.3}` {
		t.Errorf("overwritten value = %q", got)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM settings WHERE key = ?", SettingActiveTuning).Scan(&count); err != nil {
		t.Fatalf("failed to count settings: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row for key, got %d", count)
	}
}

func TestSettingsRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set("k", "v"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	if err := repo.Delete("k"); err != nil {
		t.Fatalf("failed to delete setting: %v", err)
	}
	if _, err := repo.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete("k"); err != nil {
		t.Errorf("deleting a missing key should be a no-op, got %v", err)
	}
}
