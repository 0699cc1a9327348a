package httpapi

import (
	"context"
	"net/http"
	"time"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// getByID serves GET /{id} for entities that are read straight from the store.
func getByID[T any](s *Server, get func(context.Context, int) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		v, err := get(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, v)
	}
}

// create decodes, validates and inserts an entity that has no lifecycle of
// its own. prepare may fill defaults from the request before validation.
func create[T any](s *Server, prepare func(*http.Request, *T), insert func(context.Context, *T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := decode(r, &v); err != nil {
			s.fail(w, r, err)
			return
		}
		if prepare != nil {
			prepare(r, &v)
		}
		if err := s.validate.Validate(&v); err != nil {
			s.fail(w, r, err)
			return
		}
		if err := insert(r.Context(), &v); err != nil {
			s.fail(w, r, err)
			return
		}
		s.created(w, v)
	}
}

// update serves PATCH /{id}: the body is decoded over the stored entity, then
// keep restores the fields that may not change before validating and saving.
func update[T any](s *Server, get func(context.Context, int) (*T, error), keep func(stored T, v *T), save func(context.Context, *T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		v, err := get(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		stored := *v
		if err := decode(r, v); err != nil {
			s.fail(w, r, err)
			return
		}
		keep(stored, v)
		if err := s.validate.Validate(v); err != nil {
			s.fail(w, r, err)
			return
		}
		if err := save(r.Context(), v); err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, v)
	}
}

// deleteByID serves DELETE /{id} on behalf of the acting user.
func deleteByID(s *Server, del func(context.Context, int, model.UserRef) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if err := del(r.Context(), id, actorRef(r)); err != nil {
			s.fail(w, r, err)
			return
		}
		s.ok(w, map[string]any{"id": id, "deleted": true})
	}
}

func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	boardID, err := queryInt(r, "board")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	labels, err := s.store.ListLabels(r.Context(), boardID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, labels)
}

func (s *Server) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	create(s, func(_ *http.Request, l *model.Label) { l.ID = 0 }, s.store.CreateLabel)(w, r)
}

func (s *Server) handleGetLabel(w http.ResponseWriter, r *http.Request) {
	getByID(s, s.store.GetLabel)(w, r)
}

// handleUpdateLabel changes name and colour. The board of a label is fixed.
func (s *Server) handleUpdateLabel(w http.ResponseWriter, r *http.Request) {
	update(s, s.store.GetLabel, func(stored model.Label, l *model.Label) {
		l.ID, l.BoardID = stored.ID, stored.BoardID
	}, s.store.UpdateLabel)(w, r)
}

// handleListTags lists the tags of the user in ?user, or of the acting user.
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt(r, "user")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if userID == 0 {
		userID = int(actorRef(r))
	}
	tags, err := s.store.ListTags(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, tags)
}

// handleCreateTag creates a tag owned by the acting user unless the body
// names another owner.
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	create(s, func(r *http.Request, t *model.Tag) {
		t.ID = 0
		if t.UserID == 0 {
			t.UserID = int(actorRef(r))
		}
	}, s.store.CreateTag)(w, r)
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	getByID(s, s.store.GetTag)(w, r)
}

// handleUpdateTag changes name and colour. The owner of a tag is fixed.
func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	update(s, s.store.GetTag, func(stored model.Tag, t *model.Tag) {
		t.ID, t.UserID = stored.ID, stored.UserID
	}, s.store.UpdateTag)(w, r)
}

func (s *Server) handleListAttachmentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.store.ListAttachmentTypes(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, types)
}

func (s *Server) handleCreateAttachmentType(w http.ResponseWriter, r *http.Request) {
	create(s, func(_ *http.Request, t *model.AttachmentType) { t.ID = 0 }, s.store.CreateAttachmentType)(w, r)
}

func (s *Server) handleGetAttachmentType(w http.ResponseWriter, r *http.Request) {
	getByID(s, s.store.GetAttachmentType)(w, r)
}

func (s *Server) handleUpdateAttachmentType(w http.ResponseWriter, r *http.Request) {
	update(s, s.store.GetAttachmentType, func(stored model.AttachmentType, t *model.AttachmentType) {
		t.ID = stored.ID
	}, s.store.UpdateAttachmentType)(w, r)
}

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	boardID, err := queryInt(r, "board")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	attachments, err := s.store.ListAttachments(r.Context(), boardID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, attachments)
}

// handleCreateAttachment records the acting user as the uploader.
func (s *Server) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {
	create(s, func(r *http.Request, a *model.Attachment) {
		a.ID = 0
		a.UploadedBy = actorRef(r)
		a.UploadedTime = time.Time{}
	}, s.store.CreateAttachment)(w, r)
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	getByID(s, s.store.GetAttachment)(w, r)
}

// handleUpdateAttachment changes name, file path and type. The board and the
// upload stamp are fixed.
func (s *Server) handleUpdateAttachment(w http.ResponseWriter, r *http.Request) {
	update(s, s.store.GetAttachment, func(stored model.Attachment, a *model.Attachment) {
		a.ID, a.BoardID = stored.ID, stored.BoardID
		a.UploadedBy, a.UploadedTime = stored.UploadedBy, stored.UploadedTime
	}, s.store.UpdateAttachment)(w, r)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	getByID(s, s.store.GetUser)(w, r)
}

// handleCurrentUser returns the user named by the actor header.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	u := actorFrom(r.Context())
	if u == nil {
		s.fail(w, r, domainerrors.NotFoundf("no user named in %s header", ActorHeader))
		return
	}
	s.ok(w, u)
}
