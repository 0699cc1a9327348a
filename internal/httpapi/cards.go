package httpapi

import (
	"net/http"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/filter"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/lifecycle"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// moveRequest is the body of the move endpoints. Container is ignored for
// containers; for cards zero keeps the current container.
type moveRequest struct {
	Container int `json:"container"`
	Position  int `json:"position"`
}

// linkRequest is the body of the card link endpoints.
type linkRequest struct {
	Relation string `json:"relation"`
	Target   int    `json:"target"`
}

var cardRelations = map[string]db.Relation{
	"assignee":   db.CardMembers,
	"label":      db.CardLabels,
	"tag":        db.CardTags,
	"attachment": db.CardAttachments,
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	containerID, err := queryInt(r, "container")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	boardID, err := queryInt(r, "board")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	labels, err := queryInts(r, "label")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	assignees, err := queryInts(r, "assignee")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cards, err := s.store.ListCards(r.Context(), db.CardFilter{
		ContainerID:     containerID,
		BoardID:         boardID,
		IncludeArchived: queryBool(r, "archived"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, filter.Cards(cards, labels, assignees))
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.GetCard(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, c)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var c model.Card
	if err := decode(r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	c.ID, c.Auditable = 0, model.Auditable{}
	if err := s.svc.SaveCard(r.Context(), &c, actorRef(r), lifecycle.SaveOptions{}); err != nil {
		s.fail(w, r, err)
		return
	}
	s.created(w, c)
}

// handleUpdateCard merges the body over the stored card. A position in the
// body renumbers the card's siblings.
func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.GetCard(r.Context(), id)
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
	if err := s.svc.SaveCard(r.Context(), c, actorRef(r), lifecycle.SaveOptions{}); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, c)
}

func (s *Server) handleMoveCard(w http.ResponseWriter, r *http.Request) {
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
	c, err := s.svc.MoveCard(r.Context(), id, req.Container, req.Position, actorRef(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, c)
}

func (s *Server) handleArchiveCard(archive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		var c *model.Card
		if archive {
			c, err = s.svc.ArchiveCard(r.Context(), id, actorRef(r))
		} else {
			c, err = s.svc.RestoreCard(r.Context(), id, actorRef(r))
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, c)
	}
}

func (s *Server) handleLinkCard(link bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		var req linkRequest
		if err := decode(r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
		rel, ok := cardRelations[req.Relation]
		if !ok {
			s.fail(w, r, domainerrors.Validationf("unknown relation %q: must be assignee, label, tag or attachment", req.Relation))
			return
		}
		if link {
			err = s.store.Link(r.Context(), rel, id, req.Target, actorRef(r))
		} else {
			err = s.store.Unlink(r.Context(), rel, id, req.Target, actorRef(r))
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		c, err := s.store.GetCard(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, c)
	}
}
