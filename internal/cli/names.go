package cli

import (
	"context"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
)

// userNames resolves every user id to its username.
func userNames(ctx context.Context, store *db.Store) (render.Names, error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(render.Names, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

// boardNames resolves board ids to names, archived boards included.
func boardNames(ctx context.Context, store *db.Store) (map[int]string, error) {
	boards, err := store.ListBoards(ctx, true)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(boards))
	for _, b := range boards {
		names[b.ID] = b.Name
	}
	return names, nil
}

// containerNames resolves container ids of a board (or of every board when
// boardID is zero) to names.
func containerNames(ctx context.Context, store *db.Store, boardID int) (map[int]string, error) {
	containers, err := store.ListContainers(ctx, boardID, true)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(containers))
	for _, c := range containers {
		names[c.ID] = c.Name
	}
	return names, nil
}

// labelNames resolves the label ids of a board (or of every board) to names.
func labelNames(ctx context.Context, store *db.Store, boardID int) (map[int]string, error) {
	labels, err := store.ListLabels(ctx, boardID)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(labels))
	for _, l := range labels {
		names[l.ID] = l.Name
	}
	return names, nil
}
