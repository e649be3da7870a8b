package timeline

// OverlapPolicy decides the final start time when a clip is placed on a
// track. The shipped behavior lets clips overlap freely and resolves the
// conflict at render time (first match in track order wins); a displacing
// policy can be swapped in here without touching the mutation code.
type OverlapPolicy interface {
	// Place returns the start time to use for a clip of the given duration
	// whose caller proposed the given start on the track.
	Place(track *Track, proposedStart, duration float64) float64
}

// AllowOverlap places clips exactly where the caller asked.
type AllowOverlap struct{}

func (AllowOverlap) Place(_ *Track, proposedStart, _ float64) float64 {
	return proposedStart
}

// SetOverlapPolicy swaps the placement policy. A nil policy restores the
// default permissive one.
func (s *State) SetOverlapPolicy(p OverlapPolicy) {
	if p == nil {
		p = AllowOverlap{}
	}
	s.placement = p
}

func (s *State) place(track *Track, proposedStart, duration float64) float64 {
	if s.placement == nil {
		return proposedStart
	}
	return s.placement.Place(track, proposedStart, duration)
}
