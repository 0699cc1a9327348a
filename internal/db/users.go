package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// CreateUser inserts a user and sets u.ID.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	now := formatTime(s.now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, created_at) VALUES (?, ?, ?)`,
		u.Username, u.Email, now,
	)
	if err != nil {
		return constraintError(err, fmt.Sprintf("user %q", u.Username))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	u.ID = int(id)
	u.CreatedAt = now
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id int) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

// GetUserByName retrieves a user by username.
func (s *Store) GetUserByName(ctx context.Context, username string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, created_at FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.NotFoundf("user %q not found", username)
		}
		return nil, fmt.Errorf("reading user %q: %w", username, err)
	}
	return u, nil
}

// FindOrCreateUser returns the user with the given username, creating it on
// first use.
func (s *Store) FindOrCreateUser(ctx context.Context, username string) (*model.User, error) {
	u, err := s.GetUserByName(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	u = &model.User{Username: username}
	if err := s.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns every user ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, email, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, nil
}

// usernames resolves ids to usernames. Unknown ids are skipped.
func (s *Store) usernames(ctx context.Context, ids []int) (map[int]string, error) {
	out := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, username FROM users WHERE id IN (%s)`, makePlaceholders(len(ids))),
		intArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("querying usernames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning username: %w", err)
		}
		out[id] = name
	}
	return out, rows.Err()
}

func scanUser(sc scanner) (*model.User, error) {
	var u model.User
	var email sql.NullString
	if err := sc.Scan(&u.ID, &u.Username, &email, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Email = email.String
	return &u, nil
}
