package lifecycle

import (
	"context"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// Archiving flips the Archived flag and goes through the normal save path.
// Archived rows keep their position and still count for sequencing and
// sibling renumbering.

// ArchiveBoard archives a board.
func (s *Service) ArchiveBoard(ctx context.Context, id int, actor model.UserRef) (*model.Board, error) {
	return s.setBoardArchived(ctx, id, true, actor)
}

// RestoreBoard clears the archived flag of a board.
func (s *Service) RestoreBoard(ctx context.Context, id int, actor model.UserRef) (*model.Board, error) {
	return s.setBoardArchived(ctx, id, false, actor)
}

func (s *Service) setBoardArchived(ctx context.Context, id int, archived bool, actor model.UserRef) (*model.Board, error) {
	b, err := s.store.GetBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Archived = archived
	if err := s.SaveBoard(ctx, b, actor); err != nil {
		return nil, err
	}
	return b, nil
}

// ArchiveContainer archives a container.
func (s *Service) ArchiveContainer(ctx context.Context, id int, actor model.UserRef) (*model.Container, error) {
	return s.setContainerArchived(ctx, id, true, actor)
}

// RestoreContainer clears the archived flag of a container.
func (s *Service) RestoreContainer(ctx context.Context, id int, actor model.UserRef) (*model.Container, error) {
	return s.setContainerArchived(ctx, id, false, actor)
}

func (s *Service) setContainerArchived(ctx context.Context, id int, archived bool, actor model.UserRef) (*model.Container, error) {
	c, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Archived = archived
	if err := s.SaveContainer(ctx, c, actor); err != nil {
		return nil, err
	}
	return c, nil
}

// ArchiveCard archives a card. The save runs the sibling reorder pass like
// any other card save.
func (s *Service) ArchiveCard(ctx context.Context, id int, actor model.UserRef) (*model.Card, error) {
	return s.setCardArchived(ctx, id, true, actor)
}

// RestoreCard clears the archived flag of a card.
func (s *Service) RestoreCard(ctx context.Context, id int, actor model.UserRef) (*model.Card, error) {
	return s.setCardArchived(ctx, id, false, actor)
}

func (s *Service) setCardArchived(ctx context.Context, id int, archived bool, actor model.UserRef) (*model.Card, error) {
	c, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Archived = archived
	if err := s.SaveCard(ctx, c, actor, SaveOptions{}); err != nil {
		return nil, err
	}
	return c, nil
}
