package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clipforge/clipforge-agent/internal/db"
	"github.com/clipforge/clipforge-agent/internal/media"
	"github.com/clipforge/clipforge-agent/internal/project"
	"github.com/clipforge/clipforge-agent/internal/session"
	"github.com/clipforge/clipforge-agent/internal/settings"
	"github.com/clipforge/clipforge-agent/internal/stream"
)

const testToken = "test-token"

func setupTestRouter(t *testing.T) (*chi.Mux, ServerConfig) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := settings.NewStore(database.Conn())
	if err := store.Set(context.Background(), settings.KeyAuthToken, testToken); err != nil {
		t.Fatalf("failed to seed auth token: %v", err)
	}

	logger := discardLogger()
	mediaSvc := media.NewService(media.NewRepository(database.Conn()), logger)
	projectSvc := project.NewService(project.NewRepository(database.Conn()), logger)
	sessions := session.NewManager(projectSvc, mediaSvc, logger)
	t.Cleanup(sessions.CloseAll)

	cfg := ServerConfig{
		MediaService:   mediaSvc,
		ProjectService: projectSvc,
		Sessions:       sessions,
		Streamer:       stream.NewServer(logger),
		Settings:       store,
		Logger:         logger,
		StartTime:      time.Now(),
		DeviceID:       "test-device",
	}

	return NewRouter(cfg), cfg
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestHealthHandler_NoAuthRequired(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	body := decodeBody(t, rr)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["device_id"] != "test-device" {
		t.Errorf("device_id = %v, want test-device", body["device_id"])
	}
}

func TestStatusHandler_RequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestStatusHandler_Counts(t *testing.T) {
	router, _ := setupTestRouter(t)

	doRequest(t, router, http.MethodPost, "/media", ImportMediaRequest{
		Type: media.TypeVideo, URL: "file:///a.mp4", Duration: 10, Name: "A",
	})
	doRequest(t, router, http.MethodPost, "/projects", CreateProjectRequest{Name: "P"})

	rr := doRequest(t, router, http.MethodGet, "/status", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	body := decodeBody(t, rr)
	if body["media_count"] != float64(1) {
		t.Errorf("media_count = %v, want 1", body["media_count"])
	}
	if body["projects_count"] != float64(1) {
		t.Errorf("projects_count = %v, want 1", body["projects_count"])
	}
	if body["state"] != "idle" {
		t.Errorf("state = %v, want idle", body["state"])
	}
}

func TestMediaEndpoints_CRUD(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodPost, "/media", ImportMediaRequest{
		Type: media.TypeVideo, URL: "file:///clip.mp4", Duration: 12.5, Name: "Clip",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("import status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	created := decodeBody(t, rr)
	id := created["id"].(string)

	rr = doRequest(t, router, http.MethodGet, "/media/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := decodeBody(t, rr)["duration"]; got != 12.5 {
		t.Errorf("duration = %v, want 12.5", got)
	}

	rr = doRequest(t, router, http.MethodGet, "/media", nil)
	body := decodeBody(t, rr)
	items := body["media"].([]interface{})
	if len(items) != 1 {
		t.Errorf("media list length = %d, want 1", len(items))
	}

	rr = doRequest(t, router, http.MethodDelete, "/media/"+id, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doRequest(t, router, http.MethodGet, "/media/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestMediaEndpoints_ImportRejectsBadType(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodPost, "/media", ImportMediaRequest{
		Type: "gif", URL: "file:///a.gif", Duration: 1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestStreamEndpoint_UnknownMedia(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodGet, "/media/missing/stream", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestProjectEndpoints_CRUD(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodPost, "/projects", CreateProjectRequest{Name: "Demo"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", rr.Code, http.StatusCreated)
	}
	id := decodeBody(t, rr)["id"].(string)

	rr = doRequest(t, router, http.MethodPatch, "/projects/"+id, RenameProjectRequest{Name: "Renamed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("rename status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := decodeBody(t, rr)["name"]; got != "Renamed" {
		t.Errorf("name = %v, want Renamed", got)
	}

	rr = doRequest(t, router, http.MethodGet, "/projects", nil)
	projects := decodeBody(t, rr)["projects"].([]interface{})
	if len(projects) != 1 {
		t.Errorf("projects length = %d, want 1", len(projects))
	}

	rr = doRequest(t, router, http.MethodDelete, "/projects/"+id, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doRequest(t, router, http.MethodGet, "/projects/"+id, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestSessionLifecycle(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodPost, "/projects", CreateProjectRequest{Name: "Demo"})
	projectID := decodeBody(t, rr)["id"].(string)

	// State before open is a conflict.
	rr = doRequest(t, router, http.MethodGet, "/projects/"+projectID+"/session/state", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("state before open status = %d, want %d", rr.Code, http.StatusConflict)
	}

	rr = doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/session", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("open status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	state := decodeBody(t, rr)["state"].(map[string]interface{})
	if state["totalDuration"] != float64(300) {
		t.Errorf("totalDuration = %v, want 300", state["totalDuration"])
	}
	if state["zoomLevel"] != float64(1) {
		t.Errorf("zoomLevel = %v, want 1", state["zoomLevel"])
	}

	rr = doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/session/save", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("save status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if got := decodeBody(t, rr)["version"]; got != float64(1) {
		t.Errorf("version = %v, want 1", got)
	}

	rr = doRequest(t, router, http.MethodDelete, "/projects/"+projectID+"/session", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("close status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doRequest(t, router, http.MethodGet, "/projects/"+projectID+"/session/state", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("state after close status = %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestSessionEdits(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodPost, "/media", ImportMediaRequest{
		Type: media.TypeVideo, URL: "file:///clip.mp4", Duration: 10, Name: "Clip",
	})
	mediaID := decodeBody(t, rr)["id"].(string)

	rr = doRequest(t, router, http.MethodPost, "/projects", CreateProjectRequest{Name: "Demo"})
	projectID := decodeBody(t, rr)["id"].(string)
	base := "/projects/" + projectID + "/session"

	doRequest(t, router, http.MethodPost, base, nil)

	rr = doRequest(t, router, http.MethodPost, base+"/tracks", AddTrackRequest{Type: "video"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add track status = %d, want %d", rr.Code, http.StatusCreated)
	}
	trackID := decodeBody(t, rr)["track_id"].(string)

	rr = doRequest(t, router, http.MethodPost, base+"/tracks/"+trackID+"/clips", AddClipRequest{MediaID: mediaID})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add clip status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	clipID := decodeBody(t, rr)["clip_id"].(string)

	trimStart := 2.0
	rr = doRequest(t, router, http.MethodPost, base+"/tracks/"+trackID+"/clips/"+clipID+"/trim",
		TrimClipRequest{TrimStart: &trimStart})
	if rr.Code != http.StatusOK {
		t.Fatalf("trim status = %d, want %d", rr.Code, http.StatusOK)
	}
	if applied := decodeBody(t, rr)["applied"]; applied != true {
		t.Errorf("trim applied = %v, want true", applied)
	}

	rr = doRequest(t, router, http.MethodPost, base+"/tracks/"+trackID+"/clips/"+clipID+"/split",
		SplitClipRequest{Time: 4})
	if rr.Code != http.StatusOK {
		t.Fatalf("split status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["first_clip_id"] == "" || body["second_clip_id"] == "" {
		t.Error("split did not return both clip ids")
	}

	// Edits on unknown ids report applied=false, not errors.
	rr = doRequest(t, router, http.MethodDelete, base+"/tracks/"+trackID+"/clips/"+clipID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("remove split-destroyed clip status = %d, want %d", rr.Code, http.StatusOK)
	}
	if applied := decodeBody(t, rr)["applied"]; applied != false {
		t.Errorf("remove of destroyed clip applied = %v, want false", applied)
	}
}

func TestSessionPlayheadAndViewport(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodPost, "/projects", CreateProjectRequest{Name: "Demo"})
	projectID := decodeBody(t, rr)["id"].(string)
	base := "/projects/" + projectID + "/session"

	doRequest(t, router, http.MethodPost, base, nil)

	rr = doRequest(t, router, http.MethodPost, base+"/playhead", PlayheadRequest{Position: 290})
	state := decodeBody(t, rr)["state"].(map[string]interface{})
	if state["totalDuration"] != float64(360) {
		t.Errorf("totalDuration after near-end seek = %v, want 360", state["totalDuration"])
	}

	rr = doRequest(t, router, http.MethodPost, base+"/zoom", ZoomRequest{Level: 2})
	state = decodeBody(t, rr)["state"].(map[string]interface{})
	if state["viewportDuration"] != float64(30) {
		t.Errorf("viewportDuration at zoom 2 = %v, want 30", state["viewportDuration"])
	}
	if state["scrollPosition"] != float64(0) {
		t.Errorf("scrollPosition after zoom = %v, want 0", state["scrollPosition"])
	}

	rr = doRequest(t, router, http.MethodPost, base+"/zoom/reset", nil)
	state = decodeBody(t, rr)["state"].(map[string]interface{})
	if state["zoomLevel"] != float64(1) {
		t.Errorf("zoomLevel after reset = %v, want 1", state["zoomLevel"])
	}

	rr = doRequest(t, router, http.MethodPost, base+"/scroll", ScrollRequest{Position: 10000})
	state = decodeBody(t, rr)["state"].(map[string]interface{})
	if state["scrollPosition"] != float64(300) {
		t.Errorf("scrollPosition clamped = %v, want 300", state["scrollPosition"])
	}
}

func TestSessionActiveClip(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodPost, "/media", ImportMediaRequest{
		Type: media.TypeVideo, URL: "file:///clip.mp4", Duration: 10, Name: "Clip",
	})
	mediaID := decodeBody(t, rr)["id"].(string)

	rr = doRequest(t, router, http.MethodPost, "/projects", CreateProjectRequest{Name: "Demo"})
	projectID := decodeBody(t, rr)["id"].(string)
	base := "/projects/" + projectID + "/session"

	doRequest(t, router, http.MethodPost, base, nil)

	rr = doRequest(t, router, http.MethodPost, base+"/tracks", AddTrackRequest{Type: "video"})
	trackID := decodeBody(t, rr)["track_id"].(string)
	doRequest(t, router, http.MethodPost, base+"/tracks/"+trackID+"/clips", AddClipRequest{MediaID: mediaID})

	doRequest(t, router, http.MethodPost, base+"/playhead", PlayheadRequest{Position: 5})

	rr = doRequest(t, router, http.MethodGet, base+"/active-clip", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("active-clip status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeBody(t, rr)
	if body["track_id"] != trackID {
		t.Errorf("track_id = %v, want %v", body["track_id"], trackID)
	}

	// Past the clip there is nothing active.
	doRequest(t, router, http.MethodPost, base+"/playhead", PlayheadRequest{Position: 50})
	rr = doRequest(t, router, http.MethodGet, base+"/active-clip", nil)
	body = decodeBody(t, rr)
	if _, ok := body["clip"]; ok {
		t.Errorf("clip = %v past clip end, want omitted", body["clip"])
	}
}

func TestSessionGestures(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := doRequest(t, router, http.MethodPost, "/media", ImportMediaRequest{
		Type: media.TypeVideo, URL: "file:///clip.mp4", Duration: 10, Name: "Clip",
	})
	mediaID := decodeBody(t, rr)["id"].(string)

	rr = doRequest(t, router, http.MethodPost, "/projects", CreateProjectRequest{Name: "Demo"})
	projectID := decodeBody(t, rr)["id"].(string)
	base := "/projects/" + projectID + "/session"

	doRequest(t, router, http.MethodPost, base, nil)

	rr = doRequest(t, router, http.MethodPost, base+"/tracks", AddTrackRequest{Type: "video"})
	trackID := decodeBody(t, rr)["track_id"].(string)

	rr = doRequest(t, router, http.MethodPost, base+"/gesture/drop-media", DropMediaRequest{
		TrackID: trackID, MediaID: mediaID, PointerX: 100, ContainerWidth: 600,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("drop-media status = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	clipID := decodeBody(t, rr)["clip_id"].(string)

	rr = doRequest(t, router, http.MethodPost, base+"/gesture/clip-drag/begin", ClipDragBeginRequest{
		TrackID: trackID, ClipID: clipID, PointerX: 100,
	})
	if applied := decodeBody(t, rr)["applied"]; applied != true {
		t.Fatalf("clip-drag begin applied = %v, want true", applied)
	}

	rr = doRequest(t, router, http.MethodPost, base+"/gesture/clip-drag/move", DragMoveRequest{
		PointerX: 150, ContainerWidth: 600,
	})
	if applied := decodeBody(t, rr)["applied"]; applied != true {
		t.Fatalf("clip-drag move applied = %v, want true", applied)
	}

	rr = doRequest(t, router, http.MethodPost, base+"/gesture/clip-drag/end", nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("clip-drag end status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doRequest(t, router, http.MethodPost, base+"/gesture/trim-drag/begin", TrimDragBeginRequest{
		TrackID: trackID, ClipID: clipID, Edge: "sideways", PointerX: 100,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("trim-drag begin with bad edge status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
