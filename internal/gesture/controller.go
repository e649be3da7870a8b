// Package gesture translates pointer drags into timeline mutations. Every
// pointer move applies a real mutation immediately; releasing the pointer
// just ends the gesture, there is no separate commit step.
package gesture

import (
	"log/slog"

	"github.com/clipforge/clipforge-agent/internal/timeline"
)

// Edge names a trim handle.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

type kind int

const (
	idle kind = iota
	clipDrag
	trimDrag
	playheadDrag
)

// Controller runs one gesture at a time against a timeline. It is not safe
// for concurrent use; the owning session serializes calls.
type Controller struct {
	state  *timeline.State
	logger *slog.Logger

	active kind

	// captured at gesture start
	trackID        string
	clipID         string
	edge           Edge
	pointerOrigin  float64
	initialStart   float64
	initialTrimIn  float64
	initialTrimOut float64
}

func NewController(state *timeline.State, logger *slog.Logger) *Controller {
	return &Controller{state: state, logger: logger}
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.active != idle
}

// Cancel ends whatever gesture is active. Mutations already applied stand;
// there is no staged state to roll back. Safe to call when idle, so teardown
// paths can call it unconditionally.
func (c *Controller) Cancel() {
	if c.active != idle && c.logger != nil {
		c.logger.Debug("gesture cancelled", "clip_id", c.clipID)
	}
	c.active = idle
	c.trackID = ""
	c.clipID = ""
}

// BeginClipDrag starts dragging a clip body. Captures the clip's start time
// and the pointer origin; a gesture already in progress is cancelled first.
func (c *Controller) BeginClipDrag(trackID, clipID string, pointerX float64) bool {
	c.Cancel()

	track, clip := c.resolve(trackID, clipID)
	if clip == nil {
		return false
	}

	c.active = clipDrag
	c.trackID = track.ID
	c.clipID = clip.ID
	c.pointerOrigin = pointerX
	c.initialStart = clip.StartTime
	return true
}

// MoveClipDrag converts the pointer delta to a time delta against the track
// container width and current viewport, then applies the clamped start time.
// Tying the conversion to viewport duration keeps drag sensitivity usable at
// every zoom level.
func (c *Controller) MoveClipDrag(pointerX, containerWidth float64) bool {
	if c.active != clipDrag {
		return false
	}
	_, clip := c.resolve(c.trackID, c.clipID)
	if clip == nil {
		c.Cancel()
		return false
	}

	timeDelta := c.timeDelta(pointerX, containerWidth)
	newStart := c.initialStart + timeDelta
	maxStart := c.state.TotalDuration - clip.Duration
	if newStart > maxStart {
		newStart = maxStart
	}
	if newStart < 0 {
		newStart = 0
	}
	return c.state.UpdateClipStartTime(c.trackID, c.trackID, c.clipID, newStart)
}

// EndClipDrag finishes the drag. The last applied move is the final state.
func (c *Controller) EndClipDrag() {
	if c.active == clipDrag {
		c.Cancel()
	}
}

// BeginTrimDrag starts dragging a trim handle.
func (c *Controller) BeginTrimDrag(trackID, clipID string, edge Edge, pointerX float64) bool {
	c.Cancel()

	track, clip := c.resolve(trackID, clipID)
	if clip == nil {
		return false
	}

	c.active = trimDrag
	c.trackID = track.ID
	c.clipID = clip.ID
	c.edge = edge
	c.pointerOrigin = pointerX
	c.initialTrimIn = clip.TrimStart
	c.initialTrimOut = clip.TrimEnd
	return true
}

// MoveTrimDrag applies the trim for the grabbed edge on every move. The
// timeline's trim clamping keeps the clip valid whatever the pointer does.
func (c *Controller) MoveTrimDrag(pointerX, containerWidth float64) bool {
	if c.active != trimDrag {
		return false
	}

	timeDelta := c.timeDelta(pointerX, containerWidth)
	switch c.edge {
	case EdgeStart:
		v := c.initialTrimIn + timeDelta
		return c.state.TrimClip(c.trackID, c.clipID, &v, nil)
	case EdgeEnd:
		v := c.initialTrimOut + timeDelta
		return c.state.TrimClip(c.trackID, c.clipID, nil, &v)
	}
	return false
}

// EndTrimDrag finishes the trim gesture.
func (c *Controller) EndTrimDrag() {
	if c.active == trimDrag {
		c.Cancel()
	}
}

// BeginPlayheadDrag starts scrubbing on the ruler.
func (c *Controller) BeginPlayheadDrag() {
	c.Cancel()
	c.active = playheadDrag
}

// MovePlayheadDrag maps the pointer's position within the ruler through the
// viewport law and seats the playhead there.
func (c *Controller) MovePlayheadDrag(pointerX, rulerWidth float64) bool {
	if c.active != playheadDrag {
		return false
	}
	if rulerWidth <= 0 {
		return false
	}
	c.state.SetPlayheadPosition(c.state.ScreenToTime(pointerX / rulerWidth))
	return true
}

// EndPlayheadDrag finishes the scrub.
func (c *Controller) EndPlayheadDrag() {
	if c.active == playheadDrag {
		c.Cancel()
	}
}

// DropMedia handles dropping an external media item onto a track: a single
// discrete action, not a drag state machine. The pointer position becomes the
// clip spec's start hint; track placement rules decide the final position.
func (c *Controller) DropMedia(trackID string, spec timeline.ClipSpec, pointerX, containerWidth float64) string {
	if containerWidth > 0 {
		spec.StartTime = c.state.ScreenToTime(pointerX / containerWidth)
	}
	return c.state.AddClipToTrack(trackID, spec)
}

// DropClip handles dropping an existing clip onto another track: one
// update-start-time call at the drop position.
func (c *Controller) DropClip(fromTrackID, toTrackID, clipID string, pointerX, containerWidth float64) bool {
	if containerWidth <= 0 {
		return false
	}
	dropTime := c.state.ScreenToTime(pointerX / containerWidth)
	if dropTime < 0 {
		dropTime = 0
	}
	return c.state.UpdateClipStartTime(fromTrackID, toTrackID, clipID, dropTime)
}

// timeDelta converts a pointer delta in pixels to timeline seconds.
func (c *Controller) timeDelta(pointerX, containerWidth float64) float64 {
	if containerWidth <= 0 {
		return 0
	}
	return (pointerX - c.pointerOrigin) / containerWidth * c.state.ViewportDuration
}

func (c *Controller) resolve(trackID, clipID string) (*timeline.Track, *timeline.Clip) {
	track, clip := c.state.FindClip(clipID)
	if clip == nil || track == nil || track.ID != trackID {
		return nil, nil
	}
	return track, clip
}
