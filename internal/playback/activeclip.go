package playback

import "github.com/clipforge/clipforge-agent/internal/timeline"

// MediaResolver answers whether a media id is still registered. A clip whose
// media has been deleted is skipped during resolution.
type MediaResolver interface {
	HasMedia(id string) bool
}

// ActiveClip returns the clip under the playhead: tracks are scanned in
// order, clips within a track in list order, and the first clip containing
// the playhead whose media still resolves wins. When two tracks overlap in
// time the earlier track wins deterministically. Returns the owning track id
// and nil when nothing is under the playhead.
func ActiveClip(st *timeline.State, resolver MediaResolver) (trackID string, clip *timeline.Clip) {
	pos := st.PlayheadPosition
	for _, track := range st.Tracks {
		for _, c := range track.Clips {
			if !c.Contains(pos) {
				continue
			}
			if resolver != nil && !resolver.HasMedia(c.MediaID) {
				continue
			}
			return track.ID, c
		}
	}
	return "", nil
}
