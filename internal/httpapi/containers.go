package httpapi

import (
	"net/http"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

func (s *Server) handleListContainers(w http.ResponseWriter, r *http.Request) {
	boardID, err := queryInt(r, "board")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	containers, err := s.store.ListContainers(r.Context(), boardID, queryBool(r, "archived"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, containers)
}

func (s *Server) handleGetContainer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.GetContainer(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, c)
}

func (s *Server) handleCreateContainer(w http.ResponseWriter, r *http.Request) {
	var c model.Container
	if err := decode(r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	c.ID, c.Auditable = 0, model.Auditable{}
	if err := s.svc.SaveContainer(r.Context(), &c, actorRef(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, c)
}

func (s *Server) handleUpdateContainer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.GetContainer(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	audit := c.Auditable
	if err := decode(r, c); err != nil {
		s.fail(w, r, err)
		return
	}
	c.ID, c.Auditable = id, audit
	if err := s.svc.SaveContainer(r.Context(), c, actorRef(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, c)
}

func (s *Server) handleMoveContainer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.MoveContainer(r.Context(), id, req.Position, actorRef(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, c)
}

func (s *Server) handleArchiveContainer(archive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		var c *model.Container
		if archive {
			c, err = s.svc.ArchiveContainer(r.Context(), id, actorRef(r))
		} else {
			c, err = s.svc.RestoreContainer(r.Context(), id, actorRef(r))
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, c)
	}
}
