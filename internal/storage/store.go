// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mquell/listling/internal/models"
)

// Store defines the document-store contract over the users and lists
// collections. Two backends implement it (SQLite and Firestore); the
// service layer never knows which one it talks to.
//
// Lookup methods that can legitimately miss (by username, by invitation
// code) return (nil, nil) on no match so callers can distinguish
// "absent" from "store failed". GetList and GetUserByID treat absence
// as an error, since callers hold an ID that should resolve.
//
// Update methods are whole-field overwrites with no concurrency token:
// last writer wins, concurrent writers silently lose updates. That is
// the source data model, not an oversight to fix here.
type Store interface {
	// CreateUser persists a new user. The user.ID field is populated by
	// the store when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by exact username match.
	// Returns (nil, nil) when no user carries the name.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUsername overwrites the username of an existing user.
	UpdateUsername(ctx context.Context, userID, username string) error

	// CreateList persists a new list. The list.ID field is populated by
	// the store when empty.
	CreateList(ctx context.Context, list *models.List) error

	// GetList retrieves a full list document by ID.
	GetList(ctx context.Context, listID string) (*models.List, error)

	// ListsByOwner returns all lists owned by the user, unordered.
	ListsByOwner(ctx context.Context, ownerID string) ([]models.List, error)

	// ListsBySharedWith returns all lists whose sharedWith set contains
	// the user, unordered.
	ListsBySharedWith(ctx context.Context, userID string) ([]models.List, error)

	// ListByInvitationCode retrieves a list by exact code match.
	// Returns (nil, nil) when no list carries the code.
	ListByInvitationCode(ctx context.Context, code string) (*models.List, error)

	// UpdateListName overwrites the name field of an existing list.
	UpdateListName(ctx context.Context, listID, name string) error

	// UpdateListItems replaces the whole item collection of a list.
	UpdateListItems(ctx context.Context, listID string, items []models.Item) error

	// UpdateListSharing replaces the sharedWith set and the invitation
	// code of a list in one write.
	UpdateListSharing(ctx context.Context, listID string, sharedWith []string, invitationCode string) error

	// DeleteList removes a list. No cascade: membership entries in
	// other users' views simply stop resolving.
	DeleteList(ctx context.Context, listID string) error

	// Close releases any resources held by the store.
	Close() error
}
