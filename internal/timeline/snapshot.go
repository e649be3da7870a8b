package timeline

import "encoding/json"

// Snapshot serializes the state to a JSON document mirroring the data model.
// Floats round-trip exactly through encoding/json, so a decoded snapshot
// reproduces clip fields bit for bit.
func (s *State) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// Restore rebuilds a State from a snapshot produced by Snapshot.
func Restore(data []byte) (*State, error) {
	st := New()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, err
	}
	if st.ZoomLevel == 0 {
		st.ZoomLevel = 1.0
	}
	if st.ViewportDuration == 0 {
		st.ViewportDuration = BaseViewportDuration
	}
	if st.TotalDuration < DurationFloor {
		st.TotalDuration = DurationFloor
	}
	return st, nil
}
