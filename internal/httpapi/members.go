package httpapi

import (
	"net/http"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	boardID, err := queryInt(r, "board")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	userID, err := queryInt(r, "user")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	members, err := s.store.ListMembers(r.Context(), db.MemberFilter{BoardID: boardID, UserID: userID})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, members)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.store.GetMember(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, m)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var m model.Member
	if err := decode(r, &m); err != nil {
		s.fail(w, r, err)
		return
	}
	m.ID = 0
	if err := s.svc.SaveMember(r.Context(), &m, actorRef(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, m)
}

// handleUpdateMember changes starred and position. The board and user of a
// membership are fixed.
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	m, err := s.store.GetMember(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	boardID, userID := m.BoardID, m.UserID
	if err := decode(r, m); err != nil {
		s.fail(w, r, err)
		return
	}
	m.ID, m.BoardID, m.UserID = id, boardID, userID
	if err := s.svc.SaveMember(r.Context(), m, actorRef(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, m)
}
