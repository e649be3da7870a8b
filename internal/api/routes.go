package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clipforge/clipforge-agent/internal/config"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Settings, cfg.Logger))

		r.Get("/status", statusHandler(cfg))

		r.Get("/media", listMediaHandler(cfg))
		r.Post("/media", importMediaHandler(cfg))
		r.Get("/media/{id}", getMediaHandler(cfg))
		r.Delete("/media/{id}", deleteMediaHandler(cfg))
		r.Get("/media/{id}/stream", streamMediaHandler(cfg))

		r.Get("/projects", listProjectsHandler(cfg))
		r.Post("/projects", createProjectHandler(cfg))
		r.Get("/projects/{id}", getProjectHandler(cfg))
		r.Patch("/projects/{id}", renameProjectHandler(cfg))
		r.Delete("/projects/{id}", deleteProjectHandler(cfg))
		r.Get("/projects/{id}/snapshots", listSnapshotsHandler(cfg))

		r.Route("/projects/{id}/session", func(r chi.Router) {
			r.Post("/", openSessionHandler(cfg))
			r.Delete("/", closeSessionHandler(cfg))
			r.Get("/state", sessionStateHandler(cfg))
			r.Post("/save", saveSessionHandler(cfg))

			r.Post("/tracks", addTrackHandler(cfg))
			r.Delete("/tracks/{trackID}", removeTrackHandler(cfg))
			r.Post("/tracks/{trackID}/clips", addClipHandler(cfg))
			r.Delete("/tracks/{trackID}/clips/{clipID}", removeClipHandler(cfg))
			r.Post("/tracks/{trackID}/clips/{clipID}/trim", trimClipHandler(cfg))
			r.Post("/tracks/{trackID}/clips/{clipID}/split", splitClipHandler(cfg))
			r.Post("/tracks/{trackID}/clips/{clipID}/move", moveClipHandler(cfg))
			r.Post("/tracks/{trackID}/clips/{clipID}/reorder", reorderClipHandler(cfg))
			r.Post("/tracks/{trackID}/clips/{clipID}/start-time", startTimeHandler(cfg))

			r.Post("/playhead", playheadHandler(cfg))
			r.Post("/play", playHandler(cfg))
			r.Post("/pause", pauseHandler(cfg))
			r.Get("/active-clip", activeClipHandler(cfg))

			r.Post("/zoom", setZoomHandler(cfg))
			r.Post("/zoom/in", zoomInHandler(cfg))
			r.Post("/zoom/out", zoomOutHandler(cfg))
			r.Post("/zoom/reset", zoomResetHandler(cfg))
			r.Post("/scroll", scrollHandler(cfg))

			r.Route("/gesture", func(r chi.Router) {
				r.Post("/clip-drag/begin", beginClipDragHandler(cfg))
				r.Post("/clip-drag/move", moveClipDragHandler(cfg))
				r.Post("/clip-drag/end", endClipDragHandler(cfg))
				r.Post("/trim-drag/begin", beginTrimDragHandler(cfg))
				r.Post("/trim-drag/move", moveTrimDragHandler(cfg))
				r.Post("/trim-drag/end", endTrimDragHandler(cfg))
				r.Post("/playhead-drag/begin", beginPlayheadDragHandler(cfg))
				r.Post("/playhead-drag/move", movePlayheadDragHandler(cfg))
				r.Post("/playhead-drag/end", endPlayheadDragHandler(cfg))
				r.Post("/drop-media", dropMediaHandler(cfg))
				r.Post("/drop-clip", dropClipHandler(cfg))
				r.Post("/cancel", cancelGestureHandler(cfg))
			})
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  config.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		mediaCount, _ := cfg.MediaService.Count(ctx)
		projects, _ := cfg.ProjectService.List(ctx)

		open := 0
		state := "idle"
		for _, p := range projects {
			s := cfg.Sessions.Get(p.ID)
			if s == nil {
				continue
			}
			open++
			if s.IsPlaying() {
				state = "playing"
			}
		}

		WriteJSON(w, http.StatusOK, StatusResponse{
			State:         state,
			MediaCount:    mediaCount,
			ProjectsCount: len(projects),
			OpenSessions:  open,
		})
	}
}
