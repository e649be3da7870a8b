package timeline

// Viewport operations: zoom level, scroll position, and the mapping between
// timeline seconds and normalized screen position. Rendering and pointer
// input both go through TimeToScreen/ScreenToTime so the two directions can
// never drift apart.

// SetZoomLevel clamps to [MinZoomLevel, MaxZoomLevel], derives the viewport
// duration from the 60s base, and resets scroll to the start. Zoom is
// anchored at t=0 rather than the viewport center.
func (s *State) SetZoomLevel(level float64) {
	s.ZoomLevel = clamp(level, MinZoomLevel, MaxZoomLevel)
	s.SetViewportDuration(BaseViewportDuration / s.ZoomLevel)
	s.ScrollPosition = 0
}

// ZoomIn steps the zoom level up by the fixed factor.
func (s *State) ZoomIn() {
	s.SetZoomLevel(s.ZoomLevel * ZoomFactor)
}

// ZoomOut steps the zoom level down by the fixed factor.
func (s *State) ZoomOut() {
	s.SetZoomLevel(s.ZoomLevel / ZoomFactor)
}

// ResetZoom returns to 1.0x with the viewport at the start.
func (s *State) ResetZoom() {
	s.SetZoomLevel(1.0)
}

// SetScrollPosition clamps into [0, max(0, total - viewport)].
func (s *State) SetScrollPosition(position float64) {
	s.ScrollPosition = position
	s.clampScroll()
}

// SetViewportDuration sets the visible window length, floor one second.
func (s *State) SetViewportDuration(duration float64) {
	if duration < MinViewportDuration {
		duration = MinViewportDuration
	}
	s.ViewportDuration = duration
	s.clampScroll()
}

func (s *State) clampScroll() {
	max := s.TotalDuration - s.ViewportDuration
	if max < 0 {
		max = 0
	}
	s.ScrollPosition = clamp(s.ScrollPosition, 0, max)
}

// TimeToScreen maps an absolute timeline time to a fraction of the viewport
// width. 0 is the viewport's left edge, 1 its right edge; values outside
// [0,1] are off screen.
func (s *State) TimeToScreen(t float64) float64 {
	return (t - s.ScrollPosition) / s.ViewportDuration
}

// ScreenToTime is the exact inverse of TimeToScreen.
func (s *State) ScreenToTime(fraction float64) float64 {
	return s.ScrollPosition + fraction*s.ViewportDuration
}
