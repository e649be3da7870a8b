package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipforge/clipforge-agent/internal/db"
	"github.com/clipforge/clipforge-agent/internal/media"
	"github.com/clipforge/clipforge-agent/internal/project"
)

func setupTest(t *testing.T) (*db.DB, media.RegistryService, project.StoreService) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	mediaSvc := media.NewService(media.NewRepository(database.Conn()), nil)
	projectSvc := project.NewService(project.NewRepository(database.Conn()), nil)
	return database, mediaSvc, projectSvc
}

func importVideo(t *testing.T, registry media.RegistryService, name string, duration float64) *media.Item {
	t.Helper()
	item, err := registry.Import(context.Background(), media.ImportInput{
		Type:     media.TypeVideo,
		URL:      "file:///" + name + ".mp4",
		Duration: duration,
		Name:     name,
	})
	if err != nil {
		t.Fatalf("Import(%s) error = %v", name, err)
	}
	return item
}

func TestSession_AddMediaClip(t *testing.T) {
	database, registry, _ := setupTest(t)
	defer database.Close()

	item := importVideo(t, registry, "Clip", 12)

	s := NewSession("p1", nil, registry, nil)
	trackID := s.AddTrack("video")

	clipID, err := s.AddMediaClip(context.Background(), trackID, item.ID, 0)
	if err != nil {
		t.Fatalf("AddMediaClip() error = %v", err)
	}
	if clipID == "" {
		t.Fatal("AddMediaClip() returned empty id")
	}

	state, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(state) == 0 {
		t.Error("Snapshot() returned empty document")
	}
}

func TestSession_AddMediaClip_ImageGetsDefaultDuration(t *testing.T) {
	database, registry, _ := setupTest(t)
	defer database.Close()

	item, err := registry.Import(context.Background(), media.ImportInput{
		Type: media.TypeImage,
		URL:  "file:///photo.png",
		Name: "Photo",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	s := NewSession("p1", nil, registry, nil)
	trackID := s.AddTrack("video")

	clipID, err := s.AddMediaClip(context.Background(), trackID, item.ID, 0)
	if err != nil {
		t.Fatalf("AddMediaClip() error = %v", err)
	}

	_, clip := s.ActiveClip(context.Background())
	if clip == nil || clip.ID != clipID {
		t.Fatalf("active clip = %+v, want clip %s at playhead 0", clip, clipID)
	}
	if clip.Duration != DefaultImageClipDuration {
		t.Errorf("image clip duration = %v, want %v", clip.Duration, DefaultImageClipDuration)
	}
}

func TestSession_AddMediaClip_UnknownMedia(t *testing.T) {
	database, registry, _ := setupTest(t)
	defer database.Close()

	s := NewSession("p1", nil, registry, nil)
	trackID := s.AddTrack("video")

	_, err := s.AddMediaClip(context.Background(), trackID, "missing", 0)
	if err == nil {
		t.Error("AddMediaClip() should return error for unknown media")
	}
}

func TestSession_ActiveClip_SkipsRemovedMedia(t *testing.T) {
	database, registry, _ := setupTest(t)
	defer database.Close()

	ctx := context.Background()
	item := importVideo(t, registry, "Clip", 10)

	s := NewSession("p1", nil, registry, nil)
	trackID := s.AddTrack("video")
	if _, err := s.AddMediaClip(ctx, trackID, item.ID, 0); err != nil {
		t.Fatalf("AddMediaClip() error = %v", err)
	}

	s.SetPlayhead(5)

	if _, clip := s.ActiveClip(ctx); clip == nil {
		t.Fatal("active clip = nil before media removal")
	}

	if err := registry.Remove(ctx, item.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, clip := s.ActiveClip(ctx); clip != nil {
		t.Errorf("active clip = %+v after media removal, want nil", clip)
	}
}

func TestSession_PlayPause(t *testing.T) {
	database, registry, _ := setupTest(t)
	defer database.Close()

	s := NewSession("p1", nil, registry, nil)

	s.Play()
	if !s.IsPlaying() {
		t.Error("IsPlaying() = false after Play()")
	}

	time.Sleep(250 * time.Millisecond)
	s.Pause()

	if s.IsPlaying() {
		t.Error("IsPlaying() = true after Pause()")
	}

	after, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	later, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if string(after) != string(later) {
		t.Error("state changed after Pause(), playback did not stop cleanly")
	}
}

func TestManager_OpenSaveReopen(t *testing.T) {
	database, registry, projects := setupTest(t)
	defer database.Close()

	ctx := context.Background()
	item := importVideo(t, registry, "Clip", 10)

	p, err := projects.Create(ctx, "Demo")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	m := NewManager(projects, registry, nil)

	s, err := m.Open(ctx, p.ID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	trackID := s.AddTrack("video")
	if _, err := s.AddMediaClip(ctx, trackID, item.ID, 0); err != nil {
		t.Fatalf("AddMediaClip() error = %v", err)
	}

	snap, err := m.Save(ctx, p.ID)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if snap.Version != 1 {
		t.Errorf("snapshot version = %d, want 1", snap.Version)
	}

	if !m.Close(p.ID) {
		t.Fatal("Close() = false for open session")
	}
	if m.Get(p.ID) != nil {
		t.Error("Get() should return nil after Close()")
	}

	restored, err := m.Open(ctx, p.ID)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}

	state, err := restored.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	original, _ := s.Snapshot()
	if string(state) != string(original) {
		t.Error("restored state differs from saved state")
	}
}

func TestManager_Open_SameSessionTwice(t *testing.T) {
	database, registry, projects := setupTest(t)
	defer database.Close()

	ctx := context.Background()
	p, _ := projects.Create(ctx, "Demo")

	m := NewManager(projects, registry, nil)

	s1, err := m.Open(ctx, p.ID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s2, err := m.Open(ctx, p.ID)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	if s1 != s2 {
		t.Error("Open() created a second session for the same project")
	}
}

func TestManager_Open_UnknownProject(t *testing.T) {
	database, registry, projects := setupTest(t)
	defer database.Close()

	m := NewManager(projects, registry, nil)

	_, err := m.Open(context.Background(), "missing")
	if err == nil {
		t.Error("Open() should return error for unknown project")
	}
}

func TestManager_Save_NoOpenSession(t *testing.T) {
	database, registry, projects := setupTest(t)
	defer database.Close()

	m := NewManager(projects, registry, nil)

	_, err := m.Save(context.Background(), "missing")
	if err == nil {
		t.Error("Save() should return error when no session is open")
	}
}

func TestManager_CloseAll(t *testing.T) {
	database, registry, projects := setupTest(t)
	defer database.Close()

	ctx := context.Background()
	p1, _ := projects.Create(ctx, "One")
	p2, _ := projects.Create(ctx, "Two")

	m := NewManager(projects, registry, nil)
	s1, _ := m.Open(ctx, p1.ID)
	m.Open(ctx, p2.ID)

	s1.Play()
	m.CloseAll()

	if s1.IsPlaying() {
		t.Error("session still playing after CloseAll()")
	}
	if m.Get(p1.ID) != nil || m.Get(p2.ID) != nil {
		t.Error("sessions still registered after CloseAll()")
	}
}
