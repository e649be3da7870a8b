// Package session hosts live editing sessions. Each session owns a timeline
// state, its playback driver, and its gesture controller, and serializes all
// mutations behind one mutex so handlers and the playback tick never race.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/clipforge/clipforge-agent/internal/gesture"
	"github.com/clipforge/clipforge-agent/internal/media"
	"github.com/clipforge/clipforge-agent/internal/playback"
	"github.com/clipforge/clipforge-agent/internal/timeline"
)

// DefaultImageClipDuration is the clip length assigned to still images,
// which carry no intrinsic duration of their own.
const DefaultImageClipDuration = 5.0

type Session struct {
	ProjectID string

	mu       sync.Mutex
	state    *timeline.State
	driver   *playback.Driver
	gestures *gesture.Controller
	registry media.RegistryService
	logger   *slog.Logger
}

func NewSession(projectID string, state *timeline.State, registry media.RegistryService, logger *slog.Logger) *Session {
	if state == nil {
		state = timeline.New()
	}
	// A restored snapshot may have been saved mid-playback; playback is
	// never live on open.
	state.IsPlaying = false
	s := &Session{
		ProjectID: projectID,
		state:     state,
		gestures:  gesture.NewController(state, logger),
		registry:  registry,
		logger:    logger,
	}
	s.driver = playback.NewDriver(s.advance, logger)
	return s
}

// advance is the playback tick callback. It runs on the driver goroutine,
// so it takes the session lock like any other mutation.
func (s *Session) advance(step float64) {
	s.mu.Lock()
	s.state.SetPlayheadPosition(s.state.PlayheadPosition + step)
	s.mu.Unlock()
}

// Snapshot returns the timeline state as a JSON document.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Playback

func (s *Session) Play() {
	s.mu.Lock()
	s.state.IsPlaying = true
	s.mu.Unlock()
	s.driver.Play()
}

// Pause stops the tick loop before flipping the flag. Stop is synchronous,
// so no tick lands after Pause returns.
func (s *Session) Pause() {
	s.driver.Stop()
	s.mu.Lock()
	s.state.IsPlaying = false
	s.mu.Unlock()
}

func (s *Session) IsPlaying() bool {
	return s.driver.IsPlaying()
}

func (s *Session) SetPlayhead(position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetPlayheadPosition(position)
}

// ActiveClip resolves the clip under the playhead, skipping clips whose
// media no longer exists in the registry.
func (s *Session) ActiveClip(ctx context.Context) (string, *timeline.Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return playback.ActiveClip(s.state, &registryResolver{ctx: ctx, registry: s.registry})
}

// Track and clip edits

func (s *Session) AddTrack(trackType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AddTrack(trackType)
}

func (s *Session) RemoveTrack(trackID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RemoveTrack(trackID)
}

// AddMediaClip looks the media item up in the registry and appends a clip
// for it. Still images get DefaultImageClipDuration.
func (s *Session) AddMediaClip(ctx context.Context, trackID, mediaID string, startHint float64) (string, error) {
	item, err := s.registry.Get(ctx, mediaID)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", fmt.Errorf("media %s not found", mediaID)
	}

	duration := item.Duration
	if item.Type == media.TypeImage {
		duration = DefaultImageClipDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AddClipToTrack(trackID, timeline.ClipSpec{
		MediaID:          item.ID,
		Name:             item.Name,
		Duration:         duration,
		OriginalDuration: duration,
		StartTime:        startHint,
	}), nil
}

func (s *Session) RemoveClip(trackID, clipID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RemoveClipFromTrack(trackID, clipID)
}

func (s *Session) MoveClip(fromTrackID, toTrackID, clipID string, insertIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.MoveClipToTrack(fromTrackID, toTrackID, clipID, insertIndex)
}

func (s *Session) UpdateClipStartTime(fromTrackID, toTrackID, clipID string, newStartTime float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateClipStartTime(fromTrackID, toTrackID, clipID, newStartTime)
}

func (s *Session) ReorderClip(trackID, clipID string, newIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ReorderClipInTrack(trackID, clipID, newIndex)
}

func (s *Session) TrimClip(trackID, clipID string, trimStart, trimEnd *float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TrimClip(trackID, clipID, trimStart, trimEnd)
}

func (s *Session) SplitClip(trackID, clipID string, splitTime float64) (string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SplitClip(trackID, clipID, splitTime)
}

// Viewport

func (s *Session) SetZoomLevel(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetZoomLevel(level)
}

func (s *Session) ZoomIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ZoomIn()
}

func (s *Session) ZoomOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ZoomOut()
}

func (s *Session) ResetZoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ResetZoom()
}

func (s *Session) SetScrollPosition(position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetScrollPosition(position)
}

// Gestures

func (s *Session) BeginClipDrag(trackID, clipID string, pointerX float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestures.BeginClipDrag(trackID, clipID, pointerX)
}

func (s *Session) MoveClipDrag(pointerX, containerWidth float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestures.MoveClipDrag(pointerX, containerWidth)
}

func (s *Session) EndClipDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gestures.EndClipDrag()
}

func (s *Session) BeginTrimDrag(trackID, clipID string, edge gesture.Edge, pointerX float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestures.BeginTrimDrag(trackID, clipID, edge, pointerX)
}

func (s *Session) MoveTrimDrag(pointerX, containerWidth float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestures.MoveTrimDrag(pointerX, containerWidth)
}

func (s *Session) EndTrimDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gestures.EndTrimDrag()
}

func (s *Session) BeginPlayheadDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gestures.BeginPlayheadDrag()
}

func (s *Session) MovePlayheadDrag(pointerX, rulerWidth float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestures.MovePlayheadDrag(pointerX, rulerWidth)
}

func (s *Session) EndPlayheadDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gestures.EndPlayheadDrag()
}

func (s *Session) CancelGesture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gestures.Cancel()
}

// DropMedia places a new clip for a media item dragged in from the library.
func (s *Session) DropMedia(ctx context.Context, trackID, mediaID string, pointerX, containerWidth float64) (string, error) {
	item, err := s.registry.Get(ctx, mediaID)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", fmt.Errorf("media %s not found", mediaID)
	}

	duration := item.Duration
	if item.Type == media.TypeImage {
		duration = DefaultImageClipDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestures.DropMedia(trackID, timeline.ClipSpec{
		MediaID:          item.ID,
		Name:             item.Name,
		Duration:         duration,
		OriginalDuration: duration,
	}, pointerX, containerWidth), nil
}

func (s *Session) DropClip(fromTrackID, toTrackID, clipID string, pointerX, containerWidth float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gestures.DropClip(fromTrackID, toTrackID, clipID, pointerX, containerWidth)
}

// Close stops playback. The session must not be used afterwards.
func (s *Session) Close() {
	s.driver.Stop()
	s.mu.Lock()
	s.state.IsPlaying = false
	s.mu.Unlock()
}

// registryResolver adapts the media registry to the playback resolver.
type registryResolver struct {
	ctx      context.Context
	registry media.RegistryService
}

func (r *registryResolver) HasMedia(id string) bool {
	return r.registry.Exists(r.ctx, id)
}
