package timeline

import "fmt"

// ClipSpec describes a clip to add. StartTime is a hint only: same-track adds
// always append after the last clip on the track. Duration defaults to
// OriginalDuration when zero.
type ClipSpec struct {
	MediaID          string
	Name             string
	Duration         float64
	OriginalDuration float64
	StartTime        float64
}

// AddTrack appends an empty track of the given type and returns its id.
// Callers usually need the id immediately to drop a clip on the new track.
func (s *State) AddTrack(trackType string) string {
	track := &Track{
		ID:   NewID(),
		Name: trackDisplayName(trackType),
		Type: trackType,
	}
	s.Tracks = append(s.Tracks, track)
	s.updateTotalDuration()
	return track.ID
}

// RemoveTrack deletes a track and everything on it. Reports whether the track
// existed.
func (s *State) RemoveTrack(trackID string) bool {
	for i, t := range s.Tracks {
		if t.ID == trackID {
			s.Tracks = append(s.Tracks[:i], s.Tracks[i+1:]...)
			s.updateTotalDuration()
			return true
		}
	}
	return false
}

// AddClipToTrack creates a clip on the track and returns its id. The clip is
// appended in time after the last clip already on the track, regardless of
// any ClipSpec.StartTime hint. Returns "" when the track does not exist.
func (s *State) AddClipToTrack(trackID string, spec ClipSpec) string {
	track := s.findTrack(trackID)
	if track == nil {
		return ""
	}

	duration := spec.Duration
	if duration == 0 {
		duration = spec.OriginalDuration
	}

	start := s.place(track, track.lastClipEnd(), duration)

	clip := &Clip{
		ID:               NewID(),
		MediaID:          spec.MediaID,
		Name:             spec.Name,
		StartTime:        start,
		OriginalDuration: spec.OriginalDuration,
		TrimStart:        0,
		TrimEnd:          duration,
		Duration:         duration,
	}
	track.Clips = append(track.Clips, clip)
	s.updateTotalDuration()
	return clip.ID
}

// RemoveClipFromTrack deletes a clip. Reports whether it was found.
func (s *State) RemoveClipFromTrack(trackID, clipID string) bool {
	track := s.findTrack(trackID)
	if track == nil {
		return false
	}
	i, _ := track.findClip(clipID)
	if i < 0 {
		return false
	}
	track.Clips = append(track.Clips[:i], track.Clips[i+1:]...)
	s.updateTotalDuration()
	return true
}

// MoveClipToTrack moves a clip between track lists without touching its
// StartTime. insertIndex < 0 appends; otherwise it is clamped into range.
func (s *State) MoveClipToTrack(fromTrackID, toTrackID, clipID string, insertIndex int) bool {
	from := s.findTrack(fromTrackID)
	to := s.findTrack(toTrackID)
	if from == nil || to == nil {
		return false
	}
	i, clip := from.findClip(clipID)
	if clip == nil {
		return false
	}
	from.Clips = append(from.Clips[:i], from.Clips[i+1:]...)

	if insertIndex < 0 || insertIndex > len(to.Clips) {
		insertIndex = len(to.Clips)
	}
	to.Clips = append(to.Clips, nil)
	copy(to.Clips[insertIndex+1:], to.Clips[insertIndex:])
	to.Clips[insertIndex] = clip

	s.updateTotalDuration()
	return true
}

// UpdateClipStartTime is the single primitive behind drag interactions. Same
// track updates in place; across tracks it removes from the source and
// appends to the destination. Overlap with other clips is permitted by the
// default placement policy.
func (s *State) UpdateClipStartTime(fromTrackID, toTrackID, clipID string, newStartTime float64) bool {
	if newStartTime < 0 {
		newStartTime = 0
	}

	from := s.findTrack(fromTrackID)
	if from == nil {
		return false
	}
	i, clip := from.findClip(clipID)
	if clip == nil {
		return false
	}

	if fromTrackID == toTrackID {
		clip.StartTime = s.place(from, newStartTime, clip.Duration)
		s.updateTotalDuration()
		return true
	}

	to := s.findTrack(toTrackID)
	if to == nil {
		return false
	}
	from.Clips = append(from.Clips[:i], from.Clips[i+1:]...)
	clip.StartTime = s.place(to, newStartTime, clip.Duration)
	to.Clips = append(to.Clips, clip)
	s.updateTotalDuration()
	return true
}

// ReorderClipInTrack splices a clip to a new index within its track's list.
// Only list order changes; StartTime is untouched.
func (s *State) ReorderClipInTrack(trackID, clipID string, newIndex int) bool {
	track := s.findTrack(trackID)
	if track == nil {
		return false
	}
	i, clip := track.findClip(clipID)
	if clip == nil {
		return false
	}
	track.Clips = append(track.Clips[:i], track.Clips[i+1:]...)

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(track.Clips) {
		newIndex = len(track.Clips)
	}
	track.Clips = append(track.Clips, nil)
	copy(track.Clips[newIndex+1:], track.Clips[newIndex:])
	track.Clips[newIndex] = clip
	return true
}

// TrimClip adjusts a clip's in/out points. Nil arguments keep the current
// value. Values are clamped so 0 <= trimStart < trimEnd <= originalDuration
// and the clip stays at least MinClipDuration long.
//
// Trimming the head shifts StartTime by the applied delta so the clip's
// timeline footprint follows the trim; trimming the tail leaves StartTime
// alone.
func (s *State) TrimClip(trackID, clipID string, trimStart, trimEnd *float64) bool {
	track := s.findTrack(trackID)
	if track == nil {
		return false
	}
	_, clip := track.findClip(clipID)
	if clip == nil {
		return false
	}

	prevStart := clip.TrimStart

	newStart := clip.TrimStart
	if trimStart != nil {
		newStart = *trimStart
	}
	newEnd := clip.TrimEnd
	if trimEnd != nil {
		newEnd = *trimEnd
	}

	// Start may not come within MinClipDuration of the media's end, or the
	// end clamp below would have no valid range left.
	validStart := clamp(newStart, 0, clip.OriginalDuration-MinClipDuration)
	validEnd := clamp(newEnd, validStart+MinClipDuration, clip.OriginalDuration)

	clip.TrimStart = validStart
	clip.TrimEnd = validEnd
	clip.Duration = validEnd - validStart

	if trimStart != nil {
		clip.StartTime += validStart - prevStart
		if clip.StartTime < 0 {
			clip.StartTime = 0
		}
	}

	s.updateTotalDuration()
	return true
}

// SplitClip divides a clip at splitTime, an offset into the clip's own
// playback time (0 <= splitTime <= duration). The original clip is destroyed
// and replaced in place by two new clips that tile its trim range; the ids of
// both halves are returned so callers can re-resolve any reference they held
// to the original.
func (s *State) SplitClip(trackID, clipID string, splitTime float64) (firstID, secondID string, ok bool) {
	track := s.findTrack(trackID)
	if track == nil {
		return "", "", false
	}
	i, clip := track.findClip(clipID)
	if clip == nil {
		return "", "", false
	}

	splitTime = clamp(splitTime, 0, clip.Duration)
	actualSplit := clip.TrimStart + splitTime

	first := &Clip{
		ID:               NewID(),
		MediaID:          clip.MediaID,
		Name:             fmt.Sprintf("%s (1)", clip.Name),
		StartTime:        clip.StartTime,
		OriginalDuration: clip.OriginalDuration,
		TrimStart:        clip.TrimStart,
		TrimEnd:          actualSplit,
		Duration:         actualSplit - clip.TrimStart,
	}
	second := &Clip{
		ID:               NewID(),
		MediaID:          clip.MediaID,
		Name:             fmt.Sprintf("%s (2)", clip.Name),
		StartTime:        clip.StartTime + first.Duration,
		OriginalDuration: clip.OriginalDuration,
		TrimStart:        actualSplit,
		TrimEnd:          clip.TrimEnd,
		Duration:         clip.TrimEnd - actualSplit,
	}

	track.Clips[i] = first
	track.Clips = append(track.Clips, nil)
	copy(track.Clips[i+2:], track.Clips[i+1:])
	track.Clips[i+1] = second

	s.updateTotalDuration()
	return first.ID, second.ID, true
}

// SetPlayheadPosition clamps to >= 0 and grows the timeline when the
// playhead closes in on the end, so playback never runs out of room.
func (s *State) SetPlayheadPosition(position float64) {
	if position < 0 {
		position = 0
	}
	s.PlayheadPosition = position

	if position > s.TotalDuration-ExtendThreshold {
		extended := s.TotalDuration + ExtendStep
		if position+ExtendStep > extended {
			extended = position + ExtendStep
		}
		s.TotalDuration = extended
		s.clampScroll()
	}
}

// updateTotalDuration recomputes the derived total from clip end times,
// holding the five minute floor. Trailing step of every structural mutation;
// skipping it would leave the viewport clamp working against a stale total.
func (s *State) updateTotalDuration() {
	total := DurationFloor
	for _, t := range s.Tracks {
		if end := t.lastClipEnd(); end > total {
			total = end
		}
	}
	s.TotalDuration = total
	s.clampScroll()
}

func trackDisplayName(trackType string) string {
	switch trackType {
	case TrackTypeVideo:
		return "Video Track"
	case TrackTypeAudio:
		return "Audio Track"
	case TrackTypeEffects:
		return "Effects Track"
	default:
		return "Track"
	}
}
