package db

import (
	"context"
	"errors"
	"testing"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

func TestDeleteCardLeavesGap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")
	b := mustBoard(t, s, "B")
	todo := mustContainer(t, s, b.ID, "Todo", 1)
	mustCard(t, s, todo.ID, "one", 1)
	two := mustCard(t, s, todo.ID, "two", 2)
	mustCard(t, s, todo.ID, "three", 3)

	if err := s.DeleteCard(ctx, two.ID, u.Ref()); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}

	cards, err := s.ListCards(ctx, CardFilter{ContainerID: todo.ID})
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("ListCards = %d cards, want 2", len(cards))
	}
	if cards[0].Position != 1 || cards[1].Position != 3 {
		t.Errorf("positions = [%d %d], want [1 3]", cards[0].Position, cards[1].Position)
	}

	if _, err := s.GetCard(ctx, two.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetCard after delete error = %v, want not found", err)
	}

	acts, err := s.ListActivity(ctx, EntityCard, two.ID, 1)
	if err != nil || len(acts) != 1 {
		t.Fatalf("ListActivity = %v, %v", acts, err)
	}
	if acts[0].FieldChanged != "deleted" || acts[0].OldValue != "two" || acts[0].ChangedBy != u.Ref() {
		t.Errorf("activity = %+v, want deleted two by %d", acts[0], u.ID)
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		del  func(context.Context, int, model.UserRef) error
	}{
		{"board", s.DeleteBoard},
		{"container", s.DeleteContainer},
		{"card", s.DeleteCard},
		{"member", s.DeleteMember},
		{"label", s.DeleteLabel},
		{"tag", s.DeleteTag},
		{"attachment", s.DeleteAttachment},
		{"attachment type", s.DeleteAttachmentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.del(ctx, 999, 0); !errors.Is(err, domainerrors.ErrNotFound) {
				t.Errorf("delete(999) error = %v, want not found", err)
			}
		})
	}
}

func TestDeleteBoardCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")
	b := mustBoard(t, s, "B")
	todo := mustContainer(t, s, b.ID, "Todo", 1)
	c := mustCard(t, s, todo.ID, "one", 1)
	m := &model.Member{BoardID: b.ID, UserID: u.ID, Position: 1}
	if err := s.InsertMember(ctx, m, u.Ref()); err != nil {
		t.Fatalf("InsertMember: %v", err)
	}

	if err := s.DeleteBoard(ctx, b.ID, u.Ref()); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}

	if _, err := s.GetContainer(ctx, todo.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetContainer error = %v, want not found", err)
	}
	if _, err := s.GetCard(ctx, c.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetCard error = %v, want not found", err)
	}
	if _, err := s.GetMember(ctx, m.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetMember error = %v, want not found", err)
	}

	// The activity log outlives the entities it describes.
	acts, err := s.ListActivity(ctx, EntityCard, c.ID, 0)
	if err != nil || len(acts) == 0 {
		t.Errorf("ListActivity(card) = %v, %v, want history kept", acts, err)
	}
}

func TestDeleteMemberRecordsUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")
	b := mustBoard(t, s, "B")
	m := &model.Member{BoardID: b.ID, UserID: u.ID, Position: 1}
	if err := s.InsertMember(ctx, m, u.Ref()); err != nil {
		t.Fatalf("InsertMember: %v", err)
	}

	if err := s.DeleteMember(ctx, m.ID, u.Ref()); err != nil {
		t.Fatalf("DeleteMember: %v", err)
	}
	acts, err := s.ListActivity(ctx, EntityMember, m.ID, 1)
	if err != nil || len(acts) != 1 || acts[0].OldValue != "ana" {
		t.Errorf("ListActivity = %+v, %v, want deleted ana", acts, err)
	}
}

func TestDeleteAttachmentTypeKeepsAttachments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustBoard(t, s, "B")
	images := &model.AttachmentType{Name: "Images", FileExtension: model.ExtensionGroupImages}
	if err := s.CreateAttachmentType(ctx, images); err != nil {
		t.Fatalf("CreateAttachmentType: %v", err)
	}
	a := &model.Attachment{BoardID: b.ID, Name: "shot", FilePath: "https://files.example.com/shot.png", AttachmentTypeID: &images.ID}
	if err := s.CreateAttachment(ctx, a); err != nil {
		t.Fatalf("CreateAttachment: %v", err)
	}

	if err := s.DeleteAttachmentType(ctx, images.ID, 0); err != nil {
		t.Fatalf("DeleteAttachmentType: %v", err)
	}
	got, err := s.GetAttachment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAttachment: %v", err)
	}
	if got.AttachmentTypeID != nil {
		t.Errorf("AttachmentTypeID = %d, want nil", *got.AttachmentTypeID)
	}
}

func TestUpdateCatalogEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")
	b := mustBoard(t, s, "B")

	bug := &model.Label{BoardID: b.ID, Name: "bug", Color: "#ff0000"}
	feat := &model.Label{BoardID: b.ID, Name: "feature"}
	for _, l := range []*model.Label{bug, feat} {
		if err := s.CreateLabel(ctx, l); err != nil {
			t.Fatalf("CreateLabel(%q): %v", l.Name, err)
		}
	}

	bug.Name = "defect"
	bug.Color = ""
	if err := s.UpdateLabel(ctx, bug); err != nil {
		t.Fatalf("UpdateLabel: %v", err)
	}
	got, err := s.GetLabel(ctx, bug.ID)
	if err != nil {
		t.Fatalf("GetLabel: %v", err)
	}
	if got.Name != "defect" || got.Color != model.ColorOrDefault("") {
		t.Errorf("GetLabel = %+v", got)
	}

	feat.Name = "defect"
	if err := s.UpdateLabel(ctx, feat); !errors.Is(err, domainerrors.ErrConflict) {
		t.Errorf("UpdateLabel(duplicate) error = %v, want conflict", err)
	}
	if err := s.UpdateLabel(ctx, &model.Label{ID: 999, Name: "x"}); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("UpdateLabel(999) error = %v, want not found", err)
	}

	tag := &model.Tag{UserID: u.ID, Name: "later"}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	tag.Name = "someday"
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	if got, err := s.GetTag(ctx, tag.ID); err != nil || got.Name != "someday" {
		t.Errorf("GetTag = %+v, %v", got, err)
	}

	docs := &model.AttachmentType{Name: "Docs", FileExtension: model.ExtensionGroupDocuments}
	if err := s.CreateAttachmentType(ctx, docs); err != nil {
		t.Fatalf("CreateAttachmentType: %v", err)
	}
	docs.FileExtension = 5
	if err := s.UpdateAttachmentType(ctx, docs); !errors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("UpdateAttachmentType(5) error = %v, want validation", err)
	}
	docs.Name = "Documents"
	docs.FileExtension = model.ExtensionGroupDocuments
	if err := s.UpdateAttachmentType(ctx, docs); err != nil {
		t.Errorf("UpdateAttachmentType: %v", err)
	}
}

func TestUpdateAttachmentChecksExtension(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustBoard(t, s, "B")
	images := &model.AttachmentType{Name: "Images", FileExtension: model.ExtensionGroupImages}
	if err := s.CreateAttachmentType(ctx, images); err != nil {
		t.Fatalf("CreateAttachmentType: %v", err)
	}
	a := &model.Attachment{BoardID: b.ID, Name: "shot", FilePath: "https://files.example.com/shot.png", AttachmentTypeID: &images.ID}
	if err := s.CreateAttachment(ctx, a); err != nil {
		t.Fatalf("CreateAttachment: %v", err)
	}

	a.FilePath = "https://files.example.com/notes.md"
	if err := s.UpdateAttachment(ctx, a); !errors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("UpdateAttachment(md) error = %v, want validation", err)
	}
	got, err := s.GetAttachment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAttachment: %v", err)
	}
	if got.FilePath != "https://files.example.com/shot.png" {
		t.Errorf("FilePath = %q, want the rejected update discarded", got.FilePath)
	}

	a.AttachmentTypeID = nil
	if err := s.UpdateAttachment(ctx, a); err != nil {
		t.Fatalf("UpdateAttachment(untyped): %v", err)
	}
	if got, _ := s.GetAttachment(ctx, a.ID); got.FilePath != a.FilePath || got.AttachmentTypeID != nil {
		t.Errorf("GetAttachment = %+v", got)
	}
}
