package db

import (
	"context"
	"fmt"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// ExportBoard collects a board and everything it owns, archived rows included.
func (s *Store) ExportBoard(ctx context.Context, boardID int) (*model.BoardSnapshot, error) {
	board, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	snap := &model.BoardSnapshot{
		Version:    model.SnapshotVersion,
		ExportedAt: s.now().UTC(),
		Board:      board,
	}

	if snap.Containers, err = s.ListContainers(ctx, boardID, true); err != nil {
		return nil, fmt.Errorf("exporting containers: %w", err)
	}
	if snap.Cards, err = s.ListCards(ctx, CardFilter{BoardID: boardID, IncludeArchived: true}); err != nil {
		return nil, fmt.Errorf("exporting cards: %w", err)
	}
	if snap.Labels, err = s.ListLabels(ctx, boardID); err != nil {
		return nil, fmt.Errorf("exporting labels: %w", err)
	}
	if snap.Members, err = s.ListMembers(ctx, MemberFilter{BoardID: boardID}); err != nil {
		return nil, fmt.Errorf("exporting members: %w", err)
	}
	if snap.Attachments, err = s.ListAttachments(ctx, boardID); err != nil {
		return nil, fmt.Errorf("exporting attachments: %w", err)
	}

	if snap.Users, err = s.usernames(ctx, snapshotUserIDs(snap)); err != nil {
		return nil, fmt.Errorf("exporting users: %w", err)
	}
	return snap, nil
}

// snapshotUserIDs returns every user id referenced by the snapshot, once.
func snapshotUserIDs(snap *model.BoardSnapshot) []int {
	seen := make(map[int]bool)
	var ids []int
	add := func(refs ...model.UserRef) {
		for _, r := range refs {
			if r.Valid() && !seen[int(r)] {
				seen[int(r)] = true
				ids = append(ids, int(r))
			}
		}
	}
	audit := func(a *model.Auditable) {
		add(a.CreatedBy, a.ChangedBy, a.ArchivedBy)
	}

	audit(&snap.Board.Auditable)
	for _, c := range snap.Containers {
		audit(&c.Auditable)
	}
	for _, c := range snap.Cards {
		audit(&c.Auditable)
	}
	for _, m := range snap.Members {
		add(model.UserRef(m.UserID))
	}
	for _, a := range snap.Attachments {
		add(a.UploadedBy)
	}
	return ids
}
