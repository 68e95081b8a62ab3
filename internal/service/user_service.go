package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/auth"
	"github.com/mquell/listling/internal/models"
	"github.com/mquell/listling/internal/storage"
)

// UserService handles onboarding and username management.
//
// Uniqueness of usernames is checked by lookup before create and
// rename. The store does not enforce it, so two clients racing the same
// name can both succeed; the window is accepted, matching the data
// model of the backing document store.
type UserService struct {
	store  storage.Store
	tokens *auth.TokenManager
}

// NewUserService creates a UserService with the given storage backend
// and token manager.
func NewUserService(store storage.Store, tokens *auth.TokenManager) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// Register creates a new username and returns the user with a session
// token. Fails with a conflict when the username is already taken.
func (s *UserService) Register(ctx context.Context, username string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", apperror.ValidationFailed("username", "username is required")
	}

	existing, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		slog.Error("Register lookup failed", "username", username, "error", err)
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperror.Conflict("username already exists")
	}

	user := &models.User{Username: username}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("Register failed", "username", username, "error", err)
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		slog.Error("Register token generation failed", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	slog.Info("User registered", "user_id", user.ID, "username", username)
	return user, token, nil
}

// Login resolves an existing username and returns the user with a fresh
// session token. Fails with NotFound when the username is unknown.
func (s *UserService) Login(ctx context.Context, username string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", apperror.ValidationFailed("username", "username is required")
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		slog.Error("Login lookup failed", "username", username, "error", err)
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperror.NotFound("user", username)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		slog.Error("Login token generation failed", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	slog.Info("User logged in", "user_id", user.ID, "username", username)
	return user, token, nil
}

// Rename changes the username of an existing user. A collision with a
// different user is a conflict; renaming to the current name is a
// no-op success.
func (s *UserService) Rename(ctx context.Context, userID, newUsername string) (*models.User, string, error) {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return nil, "", apperror.ValidationFailed("username", "username is required")
	}

	existing, err := s.store.GetUserByUsername(ctx, newUsername)
	if err != nil {
		slog.Error("Rename lookup failed", "username", newUsername, "error", err)
		return nil, "", err
	}
	if existing != nil && existing.ID != userID {
		return nil, "", apperror.Conflict("username already exists")
	}

	if err := s.store.UpdateUsername(ctx, userID, newUsername); err != nil {
		slog.Error("Rename failed", "user_id", userID, "error", err)
		return nil, "", err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	// The old token still carries the old username; hand back a fresh one.
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("Username changed", "user_id", userID, "username", newUsername)
	return user, token, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}
