// Package timeline implements the data model behind the clip editor: tracks
// of trimmable, time-positioned clips, a playhead, and a zoom/scroll viewport.
// All mutation goes through methods on State; callers hold exactly one State
// per editing session and serialize access to it themselves.
package timeline

import "github.com/google/uuid"

const (
	TrackTypeVideo   = "video"
	TrackTypeAudio   = "audio"
	TrackTypeEffects = "effects"
)

const (
	// MinClipDuration is the shortest a clip may be trimmed to, in seconds.
	MinClipDuration = 0.1

	// DurationFloor keeps the timeline at least five minutes long so playback
	// always has room to run.
	DurationFloor = 300.0

	// Playhead auto-extend: when the playhead gets within ExtendThreshold of
	// the end, the timeline grows by ExtendStep.
	ExtendThreshold = 30.0
	ExtendStep      = 60.0

	// BaseViewportDuration is the visible window at 1.0x zoom.
	BaseViewportDuration = 60.0

	MinZoomLevel = 0.1
	MaxZoomLevel = 10.0
	ZoomFactor   = 1.5

	MinViewportDuration = 1.0
)

// Clip is a trimmed, time-positioned reference to a media item on a track.
// TrimStart/TrimEnd are offsets into the source media; StartTime is the
// clip's position on the timeline. OriginalDuration never changes after
// creation.
type Clip struct {
	ID               string  `json:"id"`
	MediaID          string  `json:"mediaId"`
	Name             string  `json:"name"`
	StartTime        float64 `json:"startTime"`
	OriginalDuration float64 `json:"originalDuration"`
	TrimStart        float64 `json:"trimStart"`
	TrimEnd          float64 `json:"trimEnd"`
	Duration         float64 `json:"duration"`
}

// EndTime returns the clip's end position on the timeline.
func (c *Clip) EndTime() float64 {
	return c.StartTime + c.Duration
}

// Contains reports whether t falls inside [StartTime, StartTime+Duration).
func (c *Clip) Contains(t float64) bool {
	return t >= c.StartTime && t < c.StartTime+c.Duration
}

// Track holds an ordered list of clips. List order is insertion/reorder
// order, not StartTime order; renderers use it as z-order and the active-clip
// scan uses it as priority.
type Track struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Clips []*Clip `json:"clips"`
}

func (t *Track) findClip(clipID string) (int, *Clip) {
	for i, c := range t.Clips {
		if c.ID == clipID {
			return i, c
		}
	}
	return -1, nil
}

// lastClipEnd returns the largest end time on the track, or 0 when empty.
func (t *Track) lastClipEnd() float64 {
	end := 0.0
	for _, c := range t.Clips {
		if e := c.EndTime(); e > end {
			end = e
		}
	}
	return end
}

// State is the whole timeline: tracks, playhead, and viewport. One instance
// per editing session.
type State struct {
	Tracks           []*Track `json:"tracks"`
	PlayheadPosition float64  `json:"playheadPosition"`
	IsPlaying        bool     `json:"isPlaying"`
	TotalDuration    float64  `json:"totalDuration"`
	ZoomLevel        float64  `json:"zoomLevel"`
	ScrollPosition   float64  `json:"scrollPosition"`
	ViewportDuration float64  `json:"viewportDuration"`

	// placement decides where a clip lands when it is added or dragged.
	// The default permits overlap; see OverlapPolicy.
	placement OverlapPolicy
}

// New returns an empty timeline with default viewport and duration floor.
func New() *State {
	return &State{
		TotalDuration:    DurationFloor,
		ZoomLevel:        1.0,
		ViewportDuration: BaseViewportDuration,
		placement:        AllowOverlap{},
	}
}

func (s *State) findTrack(trackID string) *Track {
	for _, t := range s.Tracks {
		if t.ID == trackID {
			return t
		}
	}
	return nil
}

// FindClip locates a clip anywhere on the timeline. Returns the owning track
// and nil when not found.
func (s *State) FindClip(clipID string) (*Track, *Clip) {
	for _, t := range s.Tracks {
		if _, c := t.findClip(clipID); c != nil {
			return t, c
		}
	}
	return nil, nil
}

// NewID mints an opaque id for tracks and clips.
func NewID() string {
	return uuid.New().String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
