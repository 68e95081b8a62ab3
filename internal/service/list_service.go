package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/invite"
	"github.com/mquell/listling/internal/models"
	"github.com/mquell/listling/internal/storage"
)

// ListService implements the list repository operations: create, fetch,
// share, join, convert, rename, delete, and the item mutations routed
// through a per-list session.
//
// Access model: every operation runs on behalf of an authenticated
// user. Item mutations and reads require owner or shared membership;
// rename, delete, share and convert are owner-only. An inaccessible
// list is reported as NotFound rather than revealing its existence.
type ListService struct {
	store storage.Store
}

// NewListService creates a ListService with the given storage backend.
func NewListService(store storage.Store) *ListService {
	return &ListService{store: store}
}

// Create inserts a new list with empty items, an empty sharedWith set,
// and a freshly generated invitation code. The code exists from day
// one even on personal lists; it is only surfaced once the list is
// converted to shared. The name must not collide case-insensitively
// with another list of the same owner.
func (s *ListService) Create(ctx context.Context, ownerID, name string) (*models.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "list name is required")
	}

	owned, err := s.store.ListsByOwner(ctx, ownerID)
	if err != nil {
		slog.Error("Create list lookup failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	if ownerHasListNamed(owned, name, "") {
		return nil, apperror.Conflict("a list with this name already exists")
	}

	list := &models.List{
		Name:           name,
		OwnerID:        ownerID,
		Items:          []models.Item{},
		SharedWith:     []string{},
		InvitationCode: invite.Generate(),
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		slog.Error("Create list failed", "owner_id", ownerID, "error", err)
		return nil, err
	}

	slog.Info("List created", "list_id", list.ID, "owner_id", ownerID, "name", name)
	return list, nil
}

// Owned returns all lists owned by the user, unordered.
func (s *ListService) Owned(ctx context.Context, ownerID string) ([]models.List, error) {
	return s.store.ListsByOwner(ctx, ownerID)
}

// SharedWith returns the user's shared-list view: each list another
// user has shared with them, with the owner's username resolved via a
// secondary lookup. One lookup per list is an accepted N+1 at the
// expected handful-of-lists scale. An unresolvable owner degrades to
// "Unknown" rather than failing the whole view.
func (s *ListService) SharedWith(ctx context.Context, userID string) ([]models.SharedList, error) {
	lists, err := s.store.ListsBySharedWith(ctx, userID)
	if err != nil {
		slog.Error("SharedWith query failed", "user_id", userID, "error", err)
		return nil, err
	}

	shared := make([]models.SharedList, 0, len(lists))
	for _, list := range lists {
		ownerUsername := "Unknown"
		owner, err := s.store.GetUserByID(ctx, list.OwnerID)
		if err == nil && owner != nil {
			ownerUsername = owner.Username
		}
		shared = append(shared, models.SharedList{
			ID:            list.ID,
			Name:          list.Name,
			OwnerUsername: ownerUsername,
		})
	}
	return shared, nil
}

// Get retrieves a list for a user with owner-or-member access.
func (s *ListService) Get(ctx context.Context, listID, userID string) (*models.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.CanAccess(userID) {
		return nil, apperror.NotFound("list", listID)
	}
	return list, nil
}

// Join adds the user to the sharedWith set of the list carrying the
// invitation code. Joining twice is a no-op, not an error. An
// unmatched code fails with InvalidCode.
func (s *ListService) Join(ctx context.Context, code, userID string) (*models.List, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.ValidationFailed("invitationCode", "invitation code is required")
	}
	// A malformed code can't match any list; skip the store round-trip.
	if !invite.Valid(code) {
		return nil, apperror.InvalidCode(code)
	}

	list, err := s.store.ListByInvitationCode(ctx, code)
	if err != nil {
		slog.Error("Join lookup failed", "error", err)
		return nil, err
	}
	if list == nil {
		return nil, apperror.InvalidCode(code)
	}

	if list.IsSharedWith(userID) {
		return list, nil
	}

	sharedWith := append(append([]string{}, list.SharedWith...), userID)
	if err := s.store.UpdateListSharing(ctx, list.ID, sharedWith, list.InvitationCode); err != nil {
		slog.Error("Join failed", "list_id", list.ID, "user_id", userID, "error", err)
		return nil, err
	}
	list.SharedWith = sharedWith

	slog.Info("User joined list", "list_id", list.ID, "user_id", userID)
	return list, nil
}

// ShareWithUsername grants a named user access to an owned list.
// Sharing with a user who already has access is a no-op.
func (s *ListService) ShareWithUsername(ctx context.Context, listID, ownerID, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperror.ValidationFailed("username", "username is required")
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		slog.Error("Share lookup failed", "username", username, "error", err)
		return err
	}
	if user == nil {
		return apperror.NotFound("user", username)
	}

	list, err := s.ownedList(ctx, listID, ownerID)
	if err != nil {
		return err
	}

	if list.IsSharedWith(user.ID) {
		return nil
	}

	sharedWith := append(append([]string{}, list.SharedWith...), user.ID)
	if err := s.store.UpdateListSharing(ctx, list.ID, sharedWith, list.InvitationCode); err != nil {
		slog.Error("Share failed", "list_id", listID, "error", err)
		return err
	}

	slog.Info("List shared", "list_id", listID, "with_user_id", user.ID)
	return nil
}

// ConvertToShared turns an owned list into a shared one: the owner is
// added to the sharedWith set and a new invitation code is generated
// and persisted, permanently invalidating any previous code. The new
// code is returned for display.
func (s *ListService) ConvertToShared(ctx context.Context, listID, ownerID string) (string, error) {
	list, err := s.ownedList(ctx, listID, ownerID)
	if err != nil {
		return "", err
	}

	sharedWith := list.SharedWith
	if !list.IsSharedWith(ownerID) {
		sharedWith = append(append([]string{}, sharedWith...), ownerID)
	}

	code := invite.Generate()
	if err := s.store.UpdateListSharing(ctx, list.ID, sharedWith, code); err != nil {
		slog.Error("Convert failed", "list_id", listID, "error", err)
		return "", err
	}

	slog.Info("List converted to shared", "list_id", listID)
	return code, nil
}

// Rename changes the name of an owned list, subject to the same
// per-owner duplicate check as Create. Renaming a list to its own
// current name is a no-op success.
func (s *ListService) Rename(ctx context.Context, listID, ownerID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperror.ValidationFailed("name", "list name is required")
	}

	if _, err := s.ownedList(ctx, listID, ownerID); err != nil {
		return err
	}

	owned, err := s.store.ListsByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if ownerHasListNamed(owned, newName, listID) {
		return apperror.Conflict("a list with this name already exists")
	}

	if err := s.store.UpdateListName(ctx, listID, newName); err != nil {
		slog.Error("Rename list failed", "list_id", listID, "error", err)
		return err
	}

	slog.Info("List renamed", "list_id", listID, "name", newName)
	return nil
}

// Delete removes an owned list. No cascade: shared members' views
// simply stop resolving the list.
func (s *ListService) Delete(ctx context.Context, listID, ownerID string) error {
	if _, err := s.ownedList(ctx, listID, ownerID); err != nil {
		return err
	}
	if err := s.store.DeleteList(ctx, listID); err != nil {
		slog.Error("Delete list failed", "list_id", listID, "error", err)
		return err
	}
	slog.Info("List deleted", "list_id", listID)
	return nil
}

// ownedList fetches a list and verifies ownership, reporting NotFound
// for lists the user does not own.
func (s *ListService) ownedList(ctx context.Context, listID, ownerID string) (*models.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != ownerID {
		return nil, apperror.NotFound("list", listID)
	}
	return list, nil
}

// ownerHasListNamed reports whether any list other than excludeID
// already carries the given name, case-insensitively.
func ownerHasListNamed(owned []models.List, name, excludeID string) bool {
	for _, l := range owned {
		if l.ID == excludeID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(l.Name), name) {
			return true
		}
	}
	return false
}
