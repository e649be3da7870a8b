package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clipforge/clipforge-agent/internal/gesture"
	"github.com/clipforge/clipforge-agent/internal/session"
)

// requireSession resolves the live session for the project in the URL.
// Writes a 409 and returns nil when the project has no open session.
func requireSession(cfg ServerConfig, w http.ResponseWriter, r *http.Request) *session.Session {
	projectID := chi.URLParam(r, "id")
	s := cfg.Sessions.Get(projectID)
	if s == nil {
		WriteError(w, http.StatusConflict, "no open session for project", "NO_SESSION")
		return nil
	}
	return s
}

func writeSessionState(cfg ServerConfig, w http.ResponseWriter, s *session.Session) {
	state, err := s.Snapshot()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to encode state", "INTERNAL_ERROR")
		return
	}
	WriteJSON(w, http.StatusOK, SessionStateResponse{ProjectID: s.ProjectID, State: state})
}

func openSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")

		s, err := cfg.Sessions.Open(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
			return
		}
		writeSessionState(cfg, w, s)
	}
}

func closeSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")

		if !cfg.Sessions.Close(projectID) {
			WriteError(w, http.StatusConflict, "no open session for project", "NO_SESSION")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionStateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		writeSessionState(cfg, w, s)
	}
}

func saveSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "id")

		snap, err := cfg.Sessions.Save(r.Context(), projectID)
		if err != nil {
			WriteError(w, http.StatusConflict, err.Error(), "NO_SESSION")
			return
		}
		WriteJSON(w, http.StatusCreated, SnapshotToResponse(snap))
	}
}

// Track and clip edits

func addTrackHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req AddTrackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		trackID := s.AddTrack(req.Type)
		WriteJSON(w, http.StatusCreated, AddTrackResponse{TrackID: trackID})
	}
}

func removeTrackHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		applied := s.RemoveTrack(chi.URLParam(r, "trackID"))
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func addClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req AddClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.MediaID == "" {
			WriteError(w, http.StatusBadRequest, "media_id is required", "BAD_REQUEST")
			return
		}

		clipID, err := s.AddMediaClip(r.Context(), chi.URLParam(r, "trackID"), req.MediaID, req.StartTime)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if clipID == "" {
			WriteError(w, http.StatusNotFound, "track not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusCreated, AddClipResponse{ClipID: clipID})
	}
}

func removeClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		applied := s.RemoveClip(chi.URLParam(r, "trackID"), chi.URLParam(r, "clipID"))
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func trimClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req TrimClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := s.TrimClip(chi.URLParam(r, "trackID"), chi.URLParam(r, "clipID"), req.TrimStart, req.TrimEnd)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func splitClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req SplitClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		firstID, secondID, ok := s.SplitClip(chi.URLParam(r, "trackID"), chi.URLParam(r, "clipID"), req.Time)
		if !ok {
			WriteError(w, http.StatusUnprocessableEntity, "split point outside clip or clip not found", "SPLIT_REJECTED")
			return
		}

		WriteJSON(w, http.StatusOK, SplitClipResponse{FirstClipID: firstID, SecondClipID: secondID})
	}
}

func moveClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req MoveClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := s.MoveClip(chi.URLParam(r, "trackID"), req.ToTrackID, chi.URLParam(r, "clipID"), req.InsertIndex)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func reorderClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req ReorderClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := s.ReorderClip(chi.URLParam(r, "trackID"), chi.URLParam(r, "clipID"), req.NewIndex)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func startTimeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req StartTimeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		fromTrackID := chi.URLParam(r, "trackID")
		toTrackID := req.ToTrackID
		if toTrackID == "" {
			toTrackID = fromTrackID
		}

		applied := s.UpdateClipStartTime(fromTrackID, toTrackID, chi.URLParam(r, "clipID"), req.StartTime)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

// Playback

func playheadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req PlayheadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		s.SetPlayhead(req.Position)
		writeSessionState(cfg, w, s)
	}
}

func playHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.Play()
		writeSessionState(cfg, w, s)
	}
}

func pauseHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.Pause()
		writeSessionState(cfg, w, s)
	}
}

func activeClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		trackID, clip := s.ActiveClip(r.Context())
		WriteJSON(w, http.StatusOK, ActiveClipResponse{TrackID: trackID, Clip: clip})
	}
}

// Viewport

func setZoomHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req ZoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		s.SetZoomLevel(req.Level)
		writeSessionState(cfg, w, s)
	}
}

func zoomInHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.ZoomIn()
		writeSessionState(cfg, w, s)
	}
}

func zoomOutHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.ZoomOut()
		writeSessionState(cfg, w, s)
	}
}

func zoomResetHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.ResetZoom()
		writeSessionState(cfg, w, s)
	}
}

func scrollHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req ScrollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		s.SetScrollPosition(req.Position)
		writeSessionState(cfg, w, s)
	}
}

// Gestures

func beginClipDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req ClipDragBeginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := s.BeginClipDrag(req.TrackID, req.ClipID, req.PointerX)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func moveClipDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req DragMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := s.MoveClipDrag(req.PointerX, req.ContainerWidth)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func endClipDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.EndClipDrag()
		w.WriteHeader(http.StatusNoContent)
	}
}

func beginTrimDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req TrimDragBeginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		edge := gesture.Edge(req.Edge)
		if edge != gesture.EdgeStart && edge != gesture.EdgeEnd {
			WriteError(w, http.StatusBadRequest, "edge must be start or end", "BAD_REQUEST")
			return
		}

		applied := s.BeginTrimDrag(req.TrackID, req.ClipID, edge, req.PointerX)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func moveTrimDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req DragMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := s.MoveTrimDrag(req.PointerX, req.ContainerWidth)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func endTrimDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.EndTrimDrag()
		w.WriteHeader(http.StatusNoContent)
	}
}

func beginPlayheadDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.BeginPlayheadDrag()
		w.WriteHeader(http.StatusNoContent)
	}
}

func movePlayheadDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req PlayheadDragMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := s.MovePlayheadDrag(req.PointerX, req.RulerWidth)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func endPlayheadDragHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.EndPlayheadDrag()
		w.WriteHeader(http.StatusNoContent)
	}
}

func dropMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req DropMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		clipID, err := s.DropMedia(r.Context(), req.TrackID, req.MediaID, req.PointerX, req.ContainerWidth)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if clipID == "" {
			WriteError(w, http.StatusNotFound, "track not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusCreated, AddClipResponse{ClipID: clipID})
	}
}

func dropClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}

		var req DropClipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		applied := s.DropClip(req.FromTrackID, req.ToTrackID, req.ClipID, req.PointerX, req.ContainerWidth)
		WriteJSON(w, http.StatusOK, AppliedResponse{Applied: applied})
	}
}

func cancelGestureHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := requireSession(cfg, w, r)
		if s == nil {
			return
		}
		s.CancelGesture()
		w.WriteHeader(http.StatusNoContent)
	}
}
