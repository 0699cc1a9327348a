package httpapi

import (
	"net/http"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.store.ListBoards(r.Context(), queryBool(r, "archived"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, boards)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.store.GetBoard(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, b)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var b model.Board
	if err := decode(r, &b); err != nil {
		s.fail(w, r, err)
		return
	}
	b.ID, b.Auditable = 0, model.Auditable{}
	if err := s.svc.SaveBoard(r.Context(), &b, actorRef(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, b)
}

func (s *Server) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.store.GetBoard(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	audit := b.Auditable
	if err := decode(r, b); err != nil {
		s.fail(w, r, err)
		return
	}
	b.ID, b.Auditable = id, audit
	if err := s.svc.SaveBoard(r.Context(), b, actorRef(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, b)
}

func (s *Server) handleArchiveBoard(archive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		var b *model.Board
		if archive {
			b, err = s.svc.ArchiveBoard(r.Context(), id, actorRef(r))
		} else {
			b, err = s.svc.RestoreBoard(r.Context(), id, actorRef(r))
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, b)
	}
}

func (s *Server) handleExportBoard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.store.ExportBoard(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, snap)
}

// handleActivity lists the change log of one entity, newest first.
func (s *Server) handleActivity(entityType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			s.fail(w, r, err)
			return
		}
		entries, err := s.store.ListActivity(r.Context(), entityType, id, limit)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, entries)
	}
}
