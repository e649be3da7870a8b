package api

import (
	"encoding/json"
	"time"

	"github.com/clipforge/clipforge-agent/internal/media"
	"github.com/clipforge/clipforge-agent/internal/project"
	"github.com/clipforge/clipforge-agent/internal/timeline"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State         string `json:"state"`
	MediaCount    int    `json:"media_count"`
	ProjectsCount int    `json:"projects_count"`
	OpenSessions  int    `json:"open_sessions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Media

type ImportMediaRequest struct {
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	Duration     float64 `json:"duration"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
	Name         string  `json:"name"`
}

type MediaResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	Duration     float64 `json:"duration"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
	Name         string  `json:"name"`
	CreatedAt    string  `json:"created_at"`
}

type MediaListResponse struct {
	Media []MediaResponse `json:"media"`
}

// Projects

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type RenameProjectRequest struct {
	Name string `json:"name"`
}

type ProjectResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type SnapshotResponse struct {
	ProjectID string `json:"project_id"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
}

type SnapshotsResponse struct {
	Snapshots []SnapshotResponse `json:"snapshots"`
}

// Sessions

type SessionStateResponse struct {
	ProjectID string          `json:"project_id"`
	State     json.RawMessage `json:"state"`
}

type AddTrackRequest struct {
	Type string `json:"type"`
}

type AddTrackResponse struct {
	TrackID string `json:"track_id"`
}

type AddClipRequest struct {
	MediaID   string  `json:"media_id"`
	StartTime float64 `json:"start_time"`
}

type AddClipResponse struct {
	ClipID string `json:"clip_id"`
}

type TrimClipRequest struct {
	TrimStart *float64 `json:"trim_start,omitempty"`
	TrimEnd   *float64 `json:"trim_end,omitempty"`
}

type SplitClipRequest struct {
	Time float64 `json:"time"`
}

type SplitClipResponse struct {
	FirstClipID  string `json:"first_clip_id"`
	SecondClipID string `json:"second_clip_id"`
}

type MoveClipRequest struct {
	ToTrackID   string `json:"to_track_id"`
	InsertIndex int    `json:"insert_index"`
}

type ReorderClipRequest struct {
	NewIndex int `json:"new_index"`
}

type StartTimeRequest struct {
	ToTrackID string  `json:"to_track_id,omitempty"`
	StartTime float64 `json:"start_time"`
}

type PlayheadRequest struct {
	Position float64 `json:"position"`
}

type ZoomRequest struct {
	Level float64 `json:"level"`
}

type ScrollRequest struct {
	Position float64 `json:"position"`
}

type ActiveClipResponse struct {
	TrackID string         `json:"track_id,omitempty"`
	Clip    *timeline.Clip `json:"clip,omitempty"`
}

// AppliedResponse reports whether an edit found its target. Edits on
// missing ids are no-ops, not errors.
type AppliedResponse struct {
	Applied bool `json:"applied"`
}

// Gestures

type ClipDragBeginRequest struct {
	TrackID  string  `json:"track_id"`
	ClipID   string  `json:"clip_id"`
	PointerX float64 `json:"pointer_x"`
}

type TrimDragBeginRequest struct {
	TrackID  string  `json:"track_id"`
	ClipID   string  `json:"clip_id"`
	Edge     string  `json:"edge"`
	PointerX float64 `json:"pointer_x"`
}

type DragMoveRequest struct {
	PointerX       float64 `json:"pointer_x"`
	ContainerWidth float64 `json:"container_width"`
}

type PlayheadDragMoveRequest struct {
	PointerX   float64 `json:"pointer_x"`
	RulerWidth float64 `json:"ruler_width"`
}

type DropMediaRequest struct {
	TrackID        string  `json:"track_id"`
	MediaID        string  `json:"media_id"`
	PointerX       float64 `json:"pointer_x"`
	ContainerWidth float64 `json:"container_width"`
}

type DropClipRequest struct {
	FromTrackID    string  `json:"from_track_id"`
	ToTrackID      string  `json:"to_track_id"`
	ClipID         string  `json:"clip_id"`
	PointerX       float64 `json:"pointer_x"`
	ContainerWidth float64 `json:"container_width"`
}

func MediaToResponse(m *media.Item) MediaResponse {
	return MediaResponse{
		ID:           m.ID,
		Type:         m.Type,
		URL:          m.URL,
		Duration:     m.Duration,
		ThumbnailURL: m.ThumbnailURL,
		Name:         m.Name,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}

func ProjectToResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func SnapshotToResponse(s *project.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		ProjectID: s.ProjectID,
		Version:   s.Version,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
