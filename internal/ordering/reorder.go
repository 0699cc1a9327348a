package ordering

import (
	"context"
	"fmt"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// SiblingLister lists the cards of a container other than excludeID, ordered
// by position ascending and then by id ascending.
type SiblingLister interface {
	ListCardSiblings(ctx context.Context, containerID, excludeID int) ([]*model.Card, error)
}

// SiblingSaver persists a sibling whose position was reassigned. It must not
// trigger another reorder pass for that write.
type SiblingSaver interface {
	SaveSibling(ctx context.Context, card *model.Card, actor model.UserRef) error
}

// ReorderResult describes what a reorder pass rewrote.
type ReorderResult struct {
	Siblings int   // siblings inspected
	Moved    []int // ids of siblings whose position was rewritten, in write order
}

// CardReorderer renumbers the siblings of a card around the card's position.
type CardReorderer struct {
	lister SiblingLister
	saver  SiblingSaver
}

// NewCardReorderer returns a CardReorderer.
func NewCardReorderer(lister SiblingLister, saver SiblingSaver) *CardReorderer {
	return &CardReorderer{lister: lister, saver: saver}
}

// ReorderSiblings treats changed.Position as authoritative and assigns the
// other cards of changed.ContainerID the positions 1, 2, 3, ... in their
// current order, skipping changed.Position. Siblings already at their target
// are not written, and changed itself is never written.
//
// Positions past the end are not clamped: moving one of three cards to 100
// leaves its siblings at 1 and 2.
//
// A write failure stops the pass. Siblings written before the failure keep
// their new positions and are reported through a partial reorder error.
func (r *CardReorderer) ReorderSiblings(ctx context.Context, changed *model.Card, actor model.UserRef) (ReorderResult, error) {
	siblings, err := r.lister.ListCardSiblings(ctx, changed.ContainerID, changed.ID)
	if err != nil {
		return ReorderResult{}, fmt.Errorf("listing siblings of card %d: %w", changed.ID, err)
	}

	result := ReorderResult{Siblings: len(siblings)}
	target := 1
	for _, sibling := range siblings {
		if target == changed.Position {
			target++
		}
		if sibling.Position != target {
			sibling.Position = target
			if err := r.saver.SaveSibling(ctx, sibling, actor); err != nil {
				if len(result.Moved) > 0 {
					return result, domainerrors.PartialReorder(changed.ContainerID, result.Moved, err)
				}
				return result, err
			}
			result.Moved = append(result.Moved, sibling.ID)
		}
		target++
	}

	return result, nil
}
