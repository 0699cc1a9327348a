package db

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/ordering"
)

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(mustInit(t))
	s.now = func() time.Time { return testNow }
	return s
}

func mustUser(t *testing.T, s *Store, name string) *model.User {
	t.Helper()
	u, err := s.FindOrCreateUser(context.Background(), name)
	if err != nil {
		t.Fatalf("FindOrCreateUser(%q): %v", name, err)
	}
	return u
}

func mustBoard(t *testing.T, s *Store, name string) *model.Board {
	t.Helper()
	b := &model.Board{Name: name, Slug: model.Slugify(name)}
	model.Stamp(b, 0, testNow)
	if err := s.InsertBoard(context.Background(), b); err != nil {
		t.Fatalf("InsertBoard(%q): %v", name, err)
	}
	return b
}

func mustContainer(t *testing.T, s *Store, boardID int, name string, position int) *model.Container {
	t.Helper()
	c := &model.Container{BoardID: boardID, Name: name, Slug: model.Slugify(name), Position: position}
	model.Stamp(c, 0, testNow)
	if err := s.InsertContainer(context.Background(), c); err != nil {
		t.Fatalf("InsertContainer(%q): %v", name, err)
	}
	return c
}

func mustCard(t *testing.T, s *Store, containerID int, name string, position int) *model.Card {
	t.Helper()
	c := &model.Card{ContainerID: containerID, Name: name, Slug: model.Slugify(name), Position: position}
	model.Stamp(c, 0, testNow)
	if err := s.InsertCard(context.Background(), c); err != nil {
		t.Fatalf("InsertCard(%q): %v", name, err)
	}
	return c
}

func TestFindOrCreateUserIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	first := mustUser(t, s, "ana")
	second := mustUser(t, s, "ana")
	if first.ID != second.ID {
		t.Errorf("second lookup id = %d, want %d", second.ID, first.ID)
	}

	err := s.CreateUser(context.Background(), &model.User{Username: "ana"})
	if !errors.Is(err, domainerrors.ErrConflict) {
		t.Errorf("duplicate CreateUser error = %v, want conflict", err)
	}
}

func TestBoardRoundTripAndConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")

	b := &model.Board{Name: "Sprint 1", Slug: "sprint-1"}
	model.Stamp(b, u.Ref(), testNow)
	if err := s.InsertBoard(ctx, b); err != nil {
		t.Fatalf("InsertBoard: %v", err)
	}

	got, err := s.GetBoard(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBoard: %v", err)
	}
	if got.Slug != "sprint-1" || got.CreatedBy != u.Ref() || !got.CreatedTime.Equal(testNow) {
		t.Errorf("GetBoard = %+v", got)
	}

	dup := &model.Board{Name: "Sprint 1", Slug: "other"}
	model.Stamp(dup, u.Ref(), testNow)
	if err := s.InsertBoard(ctx, dup); !errors.Is(err, domainerrors.ErrConflict) {
		t.Errorf("duplicate board error = %v, want conflict", err)
	}

	if _, err := s.GetBoard(ctx, 999); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetBoard(999) error = %v, want not found", err)
	}
}

func TestListBoardsHidesArchived(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustBoard(t, s, "Open")
	closed := mustBoard(t, s, "Closed")
	closed.Archived = true
	model.Stamp(closed, 0, testNow)
	if err := s.UpdateBoard(ctx, closed); err != nil {
		t.Fatalf("UpdateBoard: %v", err)
	}

	active, err := s.ListBoards(ctx, false)
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Open" {
		t.Errorf("active boards = %v, want [Open]", active)
	}

	all, err := s.ListBoards(ctx, true)
	if err != nil {
		t.Fatalf("ListBoards(all): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}
	if all[1].ArchivedTime == nil || !all[1].ArchivedTime.Equal(testNow) {
		t.Errorf("archived_time = %v, want %v", all[1].ArchivedTime, testNow)
	}
}

func TestInsertContainerMissingBoard(t *testing.T) {
	s := newTestStore(t)

	c := &model.Container{BoardID: 42, Name: "Todo", Slug: "todo", Position: 1}
	model.Stamp(c, 0, testNow)
	err := s.InsertContainer(context.Background(), c)
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("InsertContainer error = %v, want not found", err)
	}
}

func TestMaxPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustBoard(t, s, "B")

	_, ok, err := s.MaxPosition(ctx, ordering.Scope{Kind: ordering.ScopeBoard, ID: b.ID})
	if err != nil || ok {
		t.Fatalf("MaxPosition(empty) = (ok=%v, %v), want (false, nil)", ok, err)
	}

	mustContainer(t, s, b.ID, "A", 1)
	todo := mustContainer(t, s, b.ID, "C", 5)
	todo.Archived = true
	model.Stamp(todo, 0, testNow)
	if err := s.UpdateContainer(ctx, todo); err != nil {
		t.Fatalf("UpdateContainer: %v", err)
	}

	max, ok, err := s.MaxPosition(ctx, ordering.Scope{Kind: ordering.ScopeBoard, ID: b.ID})
	if err != nil || !ok || max != 5 {
		t.Errorf("MaxPosition = (%d, %v, %v), want (5, true, nil) with archived rows counted", max, ok, err)
	}

	if _, _, err := s.MaxPosition(ctx, ordering.Scope{Kind: "planet", ID: 1}); err == nil {
		t.Error("MaxPosition with unknown kind returned nil error")
	}
}

func TestListCardSiblingsOrderAndExclusion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustBoard(t, s, "B")
	todo := mustContainer(t, s, b.ID, "Todo", 1)
	other := mustContainer(t, s, b.ID, "Other", 2)

	c1 := mustCard(t, s, todo.ID, "one", 2)
	c2 := mustCard(t, s, todo.ID, "two", 1)
	c3 := mustCard(t, s, todo.ID, "three", 2)
	mustCard(t, s, other.ID, "elsewhere", 1)

	got, err := s.ListCardSiblings(ctx, todo.ID, c2.ID)
	if err != nil {
		t.Fatalf("ListCardSiblings: %v", err)
	}
	if len(got) != 2 || got[0].ID != c1.ID || got[1].ID != c3.ID {
		t.Errorf("siblings = %v, want [%d %d]", cardIDs(got), c1.ID, c3.ID)
	}

	all, err := s.ListCardSiblings(ctx, todo.ID, 0)
	if err != nil {
		t.Fatalf("ListCardSiblings(0): %v", err)
	}
	if ids := cardIDs(all); len(ids) != 3 || ids[0] != c2.ID {
		t.Errorf("siblings with no exclusion = %v", ids)
	}
}

func cardIDs(cards []*model.Card) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func TestCardFieldsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustBoard(t, s, "B")
	todo := mustContainer(t, s, b.ID, "Todo", 1)

	start := testNow.Add(-24 * time.Hour)
	c := &model.Card{ContainerID: todo.ID, Name: "Write docs", Slug: "write-docs", Content: "# Heading", StartTime: &start, Position: 1}
	c.Hours, _ = model.ParseDecimal("2.5000")
	model.Stamp(c, 0, testNow)
	if err := s.InsertCard(ctx, c); err != nil {
		t.Fatalf("InsertCard: %v", err)
	}

	got, err := s.GetCard(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.Content != "# Heading" || got.StartTime == nil || !got.StartTime.Equal(start) || got.EndTime != nil {
		t.Errorf("GetCard = %+v", got)
	}
	if !got.Hours.Valid || !got.Hours.Decimal.Equal(c.Hours.Decimal) {
		t.Errorf("hours = %v, want 2.5", got.Hours)
	}
	if got.Complexity.Valid {
		t.Error("complexity should be null")
	}
	if got.Labels == nil || len(got.Labels) != 0 {
		t.Errorf("labels = %#v, want empty non-nil slice", got.Labels)
	}
}

func TestUpdateCardRecordsActivity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")
	b := mustBoard(t, s, "B")
	todo := mustContainer(t, s, b.ID, "Todo", 1)
	doing := mustContainer(t, s, b.ID, "Doing", 2)
	c := mustCard(t, s, todo.ID, "task", 1)

	c.ContainerID = doing.ID
	c.Position = 3
	model.Stamp(c, u.Ref(), testNow)
	if err := s.UpdateCard(ctx, c); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	acts, err := s.ListActivity(ctx, EntityCard, c.ID, 0)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	fields := map[string]model.Activity{}
	for _, a := range acts {
		fields[a.FieldChanged] = a
	}
	if len(acts) != 3 {
		t.Fatalf("activity count = %d, want 3 (created, container_id, position): %+v", len(acts), acts)
	}
	if a := fields["position"]; a.OldValue != "1" || a.NewValue != "3" || a.ChangedBy != u.Ref() {
		t.Errorf("position activity = %+v", a)
	}
	if _, ok := fields["container_id"]; !ok {
		t.Error("missing container_id activity")
	}

	limited, err := s.ListActivity(ctx, EntityCard, c.ID, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("ListActivity(limit 1) = %d rows, %v", len(limited), err)
	}
}

func TestUpdateMissingCard(t *testing.T) {
	s := newTestStore(t)
	c := &model.Card{ID: 77, ContainerID: 1, Name: "ghost", Slug: "ghost"}
	if err := s.UpdateCard(context.Background(), c); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("UpdateCard(missing) error = %v, want not found", err)
	}
}

func TestLinkAndUnlink(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustBoard(t, s, "B")
	todo := mustContainer(t, s, b.ID, "Todo", 1)
	c := mustCard(t, s, todo.ID, "task", 1)

	label := &model.Label{BoardID: b.ID, Name: "bug"}
	if err := s.CreateLabel(ctx, label); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}
	if label.Color != model.DefaultColor {
		t.Errorf("label colour = %q, want default", label.Color)
	}

	for i := 0; i < 2; i++ {
		if err := s.Link(ctx, CardLabels, c.ID, label.ID, 0); err != nil {
			t.Fatalf("Link #%d: %v", i+1, err)
		}
	}

	got, err := s.GetCard(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if len(got.Labels) != 1 || got.Labels[0] != label.ID {
		t.Errorf("labels = %v, want [%d]", got.Labels, label.ID)
	}

	acts, _ := s.ListActivity(ctx, EntityCard, c.ID, 0)
	added := 0
	for _, a := range acts {
		if a.FieldChanged == "label_added" {
			added++
		}
	}
	if added != 1 {
		t.Errorf("label_added activity = %d, want 1", added)
	}

	if err := s.Link(ctx, CardLabels, c.ID, 999, 0); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Link(missing label) error = %v, want not found", err)
	}
	if err := s.Link(ctx, CardLabels, 999, label.ID, 0); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Link(missing card) error = %v, want not found", err)
	}

	if err := s.Unlink(ctx, CardLabels, c.ID, label.ID, 0); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if err := s.Unlink(ctx, CardLabels, c.ID, label.ID, 0); err != nil {
		t.Fatalf("second Unlink: %v", err)
	}
	got, _ = s.GetCard(ctx, c.ID)
	if len(got.Labels) != 0 {
		t.Errorf("labels after unlink = %v, want none", got.Labels)
	}
}

func TestContainerLinksOnInsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")
	b := mustBoard(t, s, "B")

	tag := &model.Tag{UserID: u.ID, Name: "mine", Color: "#ff0000"}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	c := &model.Container{BoardID: b.ID, Name: "Todo", Slug: "todo", Position: 1, Tags: []int{tag.ID}}
	model.Stamp(c, u.Ref(), testNow)
	if err := s.InsertContainer(ctx, c); err != nil {
		t.Fatalf("InsertContainer: %v", err)
	}

	got, err := s.GetContainer(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContainer: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != tag.ID {
		t.Errorf("tags = %v, want [%d]", got.Tags, tag.ID)
	}

	tags, err := s.ListTags(ctx, u.ID)
	if err != nil || len(tags) != 1 || tags[0].Color != "#ff0000" {
		t.Errorf("ListTags = %v, %v", tags, err)
	}
}

func TestMemberUniquePerBoard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")
	b := mustBoard(t, s, "B")

	m := &model.Member{BoardID: b.ID, UserID: u.ID, Position: 1}
	if err := s.InsertMember(ctx, m, u.Ref()); err != nil {
		t.Fatalf("InsertMember: %v", err)
	}

	dup := &model.Member{BoardID: b.ID, UserID: u.ID, Position: 2}
	if err := s.InsertMember(ctx, dup, u.Ref()); !errors.Is(err, domainerrors.ErrConflict) {
		t.Errorf("duplicate membership error = %v, want conflict", err)
	}

	m.Starred = true
	if err := s.UpdateMember(ctx, m, u.Ref()); err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	got, err := s.ListMembers(ctx, MemberFilter{UserID: u.ID})
	if err != nil || len(got) != 1 || !got[0].Starred {
		t.Errorf("ListMembers = %v, %v", got, err)
	}

	max, ok, err := s.MaxPosition(ctx, ordering.Scope{Kind: ordering.ScopeUser, ID: u.ID})
	if err != nil || !ok || max != 1 {
		t.Errorf("MaxPosition(user) = (%d, %v, %v), want (1, true, nil)", max, ok, err)
	}
}

func TestCreateAttachmentChecksExtension(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := mustBoard(t, s, "B")

	images := &model.AttachmentType{Name: "Images", FileExtension: model.ExtensionGroupImages}
	if err := s.CreateAttachmentType(ctx, images); err != nil {
		t.Fatalf("CreateAttachmentType: %v", err)
	}

	ok := &model.Attachment{BoardID: b.ID, Name: "shot", FilePath: "https://files.example.com/shot.png", AttachmentTypeID: &images.ID}
	if err := s.CreateAttachment(ctx, ok); err != nil {
		t.Fatalf("CreateAttachment(png): %v", err)
	}

	bad := &model.Attachment{BoardID: b.ID, Name: "notes", FilePath: "https://files.example.com/notes.md", AttachmentTypeID: &images.ID}
	if err := s.CreateAttachment(ctx, bad); !errors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("CreateAttachment(md) error = %v, want validation", err)
	}

	untyped := &model.Attachment{BoardID: b.ID, Name: "any", FilePath: "https://files.example.com/blob"}
	if err := s.CreateAttachment(ctx, untyped); err != nil {
		t.Errorf("CreateAttachment(untyped): %v", err)
	}

	got, err := s.GetAttachment(ctx, ok.ID)
	if err != nil {
		t.Fatalf("GetAttachment: %v", err)
	}
	if got.AttachmentTypeID == nil || *got.AttachmentTypeID != images.ID || !got.UploadedTime.Equal(testNow) {
		t.Errorf("GetAttachment = %+v", got)
	}

	if err := s.CreateAttachmentType(ctx, &model.AttachmentType{Name: "Videos", FileExtension: 5}); !errors.Is(err, domainerrors.ErrValidation) {
		t.Errorf("CreateAttachmentType(5) error = %v, want validation", err)
	}
}

func TestExportBoard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "ana")
	b := &model.Board{Name: "Sprint 1", Slug: "sprint-1"}
	model.Stamp(b, u.Ref(), testNow)
	if err := s.InsertBoard(ctx, b); err != nil {
		t.Fatalf("InsertBoard: %v", err)
	}
	todo := mustContainer(t, s, b.ID, "Todo", 1)
	mustCard(t, s, todo.ID, "one", 1)
	mustCard(t, s, todo.ID, "two", 2)
	if err := s.InsertMember(ctx, &model.Member{BoardID: b.ID, UserID: u.ID, Position: 1}, u.Ref()); err != nil {
		t.Fatalf("InsertMember: %v", err)
	}

	snap, err := s.ExportBoard(ctx, b.ID)
	if err != nil {
		t.Fatalf("ExportBoard: %v", err)
	}
	if snap.Version != model.SnapshotVersion || snap.Board.ID != b.ID {
		t.Errorf("snapshot header = %d/%d", snap.Version, snap.Board.ID)
	}
	if len(snap.Containers) != 1 || len(snap.Cards) != 2 || len(snap.Members) != 1 {
		t.Errorf("snapshot sizes = containers %d, cards %d, members %d", len(snap.Containers), len(snap.Cards), len(snap.Members))
	}
	if snap.Users[u.ID] != "ana" {
		t.Errorf("users = %v, want %d -> ana", snap.Users, u.ID)
	}

	if _, err := s.ExportBoard(ctx, 999); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("ExportBoard(999) error = %v, want not found", err)
	}
}
