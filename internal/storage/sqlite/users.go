package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/models"
)

// CreateUser inserts a new user into the database, generating an ID and
// timestamp when unset.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, created_at) VALUES (?, ?, ?)",
		user.ID, user.Username, user.CreatedAt,
	)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

// GetUserByUsername retrieves a user by exact username match.
// Returns (nil, nil) when no user carries the name.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to get user by username: %w", err))
	}
	return user, nil
}

// UpdateUsername overwrites the username of an existing user.
func (s *SQLiteStore) UpdateUsername(ctx context.Context, userID, username string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET username = ? WHERE id = ?",
		username, userID,
	)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to update username: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to update username: %w", err))
	}
	if n == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}
