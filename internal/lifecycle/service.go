// Package lifecycle runs the save pipeline shared by boards, containers,
// cards and memberships: validation, slug derivation, position sequencing,
// the card sibling reorder, audit stamping and persistence.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/logger"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/ordering"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/validation"
)

// Store is the persistence the pipeline needs.
type Store interface {
	ordering.PositionReader
	ordering.SiblingLister

	InsertBoard(ctx context.Context, b *model.Board) error
	UpdateBoard(ctx context.Context, b *model.Board) error
	GetBoard(ctx context.Context, id int) (*model.Board, error)

	InsertContainer(ctx context.Context, c *model.Container) error
	UpdateContainer(ctx context.Context, c *model.Container) error
	GetContainer(ctx context.Context, id int) (*model.Container, error)

	InsertCard(ctx context.Context, c *model.Card) error
	UpdateCard(ctx context.Context, c *model.Card) error
	GetCard(ctx context.Context, id int) (*model.Card, error)

	InsertMember(ctx context.Context, m *model.Member, actor model.UserRef) error
	UpdateMember(ctx context.Context, m *model.Member, actor model.UserRef) error
	GetMember(ctx context.Context, id int) (*model.Member, error)
}

// SaveOptions changes how SaveCard behaves.
type SaveOptions struct {
	// SuppressReorder skips the sibling reorder pass. The reorderer sets it
	// when writing siblings so that its own writes do not trigger another pass.
	SuppressReorder bool
}

// Service saves entities through the shared pipeline.
type Service struct {
	store     Store
	seq       *ordering.Sequencer
	reorderer *ordering.CardReorderer
	validate  *validation.Validator
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock sets the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service backed by store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		seq:      ordering.NewSequencer(store),
		validate: validation.New(),
		log:      logger.Discard(),
		now:      time.Now,
	}
	s.reorderer = ordering.NewCardReorderer(store, siblingSaver{s})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// siblingSaver writes reorder results back through SaveCard with the
// reorder pass suppressed.
type siblingSaver struct {
	svc *Service
}

func (w siblingSaver) SaveSibling(ctx context.Context, card *model.Card, actor model.UserRef) error {
	return w.svc.SaveCard(ctx, card, actor, SaveOptions{SuppressReorder: true})
}

func (s *Service) stamp(e model.AuditedEntity, actor model.UserRef) {
	model.Stamp(e, actor, s.now().UTC().Truncate(time.Second))
}

// prepare derives the slug of e and checks the derived value. A name without
// any letter or digit yields no slug, and decomposition can lengthen a name
// past the slug limit.
func (s *Service) prepare(e model.AuditedEntity) error {
	model.PrepareForSave(e)
	name, slug := e.SlugFields()
	if *slug == "" {
		return domainerrors.ValidationWithDetails(
			fmt.Sprintf("name %q has no characters usable in a slug", name),
			map[string]string{"slug": "use letters or digits in the name, or set a slug"},
		)
	}
	return s.validate.Validate(e)
}

// SaveBoard validates b, derives its slug, stamps it and persists it.
func (s *Service) SaveBoard(ctx context.Context, b *model.Board, actor model.UserRef) error {
	if err := s.validate.Validate(b); err != nil {
		return err
	}
	if err := s.prepare(b); err != nil {
		return err
	}
	s.stamp(b, actor)

	if b.ID == 0 {
		return s.store.InsertBoard(ctx, b)
	}
	return s.store.UpdateBoard(ctx, b)
}

// SaveContainer validates c, derives its slug, appends it to its board when
// it has no position, stamps it and persists it. Containers have no sibling
// reorder pass: an explicit position may collide with a sibling.
func (s *Service) SaveContainer(ctx context.Context, c *model.Container, actor model.UserRef) error {
	if err := s.validate.Validate(c); err != nil {
		return err
	}
	if err := s.prepare(c); err != nil {
		return err
	}

	if c.Position <= 0 {
		pos, err := s.seq.NextPosition(ctx, ordering.Scope{Kind: ordering.ScopeBoard, ID: c.BoardID})
		if err != nil {
			return err
		}
		c.Position = pos
		s.log.Debug("sequenced container", "board", c.BoardID, "position", pos)
	}

	s.stamp(c, actor)
	if c.ID == 0 {
		return s.store.InsertContainer(ctx, c)
	}
	return s.store.UpdateContainer(ctx, c)
}

// SaveCard validates c, derives its slug, appends it to its container when it
// has no position, renumbers its siblings around its position, stamps it and
// persists it. The sibling pass runs before c itself is written; if it fails,
// c is not written.
func (s *Service) SaveCard(ctx context.Context, c *model.Card, actor model.UserRef, opts SaveOptions) error {
	if err := s.validate.Validate(c); err != nil {
		return err
	}
	if err := s.prepare(c); err != nil {
		return err
	}
	c.RoundDecimals()

	if c.Position <= 0 {
		pos, err := s.seq.NextPosition(ctx, ordering.Scope{Kind: ordering.ScopeContainer, ID: c.ContainerID})
		if err != nil {
			return err
		}
		c.Position = pos
		s.log.Debug("sequenced card", "container", c.ContainerID, "position", pos)
	}

	if !opts.SuppressReorder {
		res, err := s.reorderer.ReorderSiblings(ctx, c, actor)
		if err != nil {
			s.log.Warn("card reorder failed", "card", c.ID, "container", c.ContainerID, "moved", res.Moved, "error", err)
			return err
		}
		if len(res.Moved) > 0 {
			s.log.Debug("reordered siblings", "card", c.ID, "container", c.ContainerID,
				"siblings", res.Siblings, "moved", res.Moved)
		}
	}

	s.stamp(c, actor)
	if c.ID == 0 {
		return s.store.InsertCard(ctx, c)
	}
	return s.store.UpdateCard(ctx, c)
}

// SaveMember validates m, appends it to the user's board ordering when it has
// no position and persists it.
func (s *Service) SaveMember(ctx context.Context, m *model.Member, actor model.UserRef) error {
	if err := s.validate.Validate(m); err != nil {
		return err
	}

	if m.Position <= 0 {
		pos, err := s.seq.NextPosition(ctx, ordering.Scope{Kind: ordering.ScopeUser, ID: m.UserID})
		if err != nil {
			return err
		}
		m.Position = pos
	}

	if m.ID == 0 {
		return s.store.InsertMember(ctx, m, actor)
	}
	return s.store.UpdateMember(ctx, m, actor)
}

// MoveCard moves a card to position within containerID. A zero containerID
// keeps the current container. A zero position appends the card to the
// target container.
func (s *Service) MoveCard(ctx context.Context, id, containerID, position int, actor model.UserRef) (*model.Card, error) {
	if position < 0 {
		return nil, domainerrors.Validationf("invalid position %d: must not be negative", position)
	}
	c, err := s.store.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	if containerID > 0 && containerID != c.ContainerID {
		c.ContainerID = containerID
		c.Position = 0
	}
	if position > 0 {
		c.Position = position
	}

	if err := s.SaveCard(ctx, c, actor, SaveOptions{}); err != nil {
		return nil, err
	}
	return c, nil
}

// MoveContainer sets the position of a container within its board.
func (s *Service) MoveContainer(ctx context.Context, id, position int, actor model.UserRef) (*model.Container, error) {
	if position <= 0 {
		return nil, domainerrors.Validationf("invalid position %d: must be positive", position)
	}
	c, err := s.store.GetContainer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Position = position
	if err := s.SaveContainer(ctx, c, actor); err != nil {
		return nil, err
	}
	return c, nil
}
