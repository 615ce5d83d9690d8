package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
)

type health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Unread  int    `json:"unread"`
	Clients int    `json:"clients"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	ok(w, health{
		Status:  "ok",
		Version: s.version,
		Unread:  s.app.Notifications.UnreadCount(),
		Clients: s.hub.Len(),
	})
}

// listNotifications returns the state; ?unread=true keeps unread entries
// only while the count stays global.
func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	st := s.app.Notifications.Snapshot()

	if raw := r.URL.Query().Get("unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, "unread must be a boolean")
			return
		}
		if unread {
			kept := []notify.Notification{}
			for _, n := range st.Notifications {
				if !n.Read {
					kept = append(kept, n)
				}
			}
			st.Notifications = kept
		}
	}

	ok(w, st)
}

func (s *Server) addNotification(w http.ResponseWriter, r *http.Request) {
	var in notify.Input
	if err := decodeBody(r, &in); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	n, err := s.app.Notifications.Add(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	created(w, n)
}

type eventRequest struct {
	Module  string `json:"module"`
	Action  string `json:"action"`
	Entity  string `json:"entity"`
	Details string `json:"details,omitempty"`
}

func (s *Server) emitEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	module, err := notify.ParseModule(req.Module)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	action, err := notify.ParseAction(req.Action)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	n, err := s.app.Notifier.Emit(r.Context(), module, action, req.Entity, req.Details)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	created(w, n)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, found := s.app.Notifications.Snapshot().Find(id); !found {
		notFound(w, "notification not found")
		return
	}

	s.app.Notifications.MarkAsRead(r.Context(), id)

	n, found := s.app.Notifications.Snapshot().Find(id)
	if !found {
		notFound(w, "notification not found")
		return
	}
	ok(w, n)
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	s.app.Notifications.MarkAllAsRead(r.Context())
	ok(w, s.app.Notifications.Snapshot())
}

func (s *Server) removeNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, found := s.app.Notifications.Snapshot().Find(id); !found {
		notFound(w, "notification not found")
		return
	}

	s.app.Notifications.Remove(r.Context(), id)
	ok(w, s.app.Notifications.Snapshot())
}

func (s *Server) clearNotifications(w http.ResponseWriter, r *http.Request) {
	s.app.Notifications.ClearAll(r.Context())
	ok(w, s.app.Notifications.Snapshot())
}

type focusRequest struct {
	Focused bool `json:"focused"`
}

// setFocus lets a browser client report tab focus so auto-read follows it.
func (s *Server) setFocus(w http.ResponseWriter, r *http.Request) {
	var req focusRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	s.app.Focus.SetFocused(req.Focused)
	ok(w, req)
}

func (s *Server) streamNotifications(w http.ResponseWriter, r *http.Request) {
	s.hub.Serve(w, r, s.app.Notifications.Snapshot)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, notify.ErrInvalidInput) {
		badRequest(w, err.Error())
		return
	}
	s.log.Error().Ctx(r.Context()).Err(err).Msg("notification store")
	internalError(w, "failed to update notifications")
}
