package service

import (
	"context"
	"log/slog"

	"github.com/mquell/listling/internal/items"
	"github.com/mquell/listling/internal/models"
	"github.com/mquell/listling/internal/storage"
)

// ListSession is the local view state for one list: an in-memory
// snapshot of the list document plus the active sort direction,
// rehydrated from the store and re-derived after every mutation.
//
// Write policy: each mutation computes the new item collection through
// the items package, persists it with a whole-field replace, and on
// success adopts the computed result without re-fetching. On a failed
// persist the snapshot is rolled back to the pre-mutation value and the
// error is surfaced, so the view never silently diverges from what the
// caller believes was written. The next Reload reconciles with
// whatever other clients wrote in the meantime (last writer wins).
type ListSession struct {
	store     storage.Store
	list      *models.List
	ascending bool
}

// OpenListSession fetches the list and returns a session with its items
// sorted in the default direction (ascending). The user must be the
// owner or a shared member.
func OpenListSession(ctx context.Context, store storage.Store, listID, userID string) (*ListSession, error) {
	svc := NewListService(store)
	list, err := svc.Get(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	list.Items = items.Sorted(list.Items, true)
	return &ListSession{store: store, list: list, ascending: true}, nil
}

// List returns the current snapshot.
func (s *ListSession) List() *models.List {
	return s.list
}

// Ascending returns the active sort direction.
func (s *ListSession) Ascending() bool {
	return s.ascending
}

// SetAscending sets the direction and re-sorts the snapshot locally.
// Direction is pure view state; nothing is persisted.
func (s *ListSession) SetAscending(ascending bool) {
	s.ascending = ascending
	s.list.Items = items.Sorted(s.list.Items, ascending)
}

// ToggleDirection flips the sort direction, re-sorts locally, and
// returns the new direction.
func (s *ListSession) ToggleDirection() bool {
	s.SetAscending(!s.ascending)
	return s.ascending
}

// AddItem adds a named item, persists the new collection, and adopts it.
func (s *ListSession) AddItem(ctx context.Context, name string) ([]models.Item, error) {
	next, err := items.Add(s.list.Items, name, s.ascending)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, next)
}

// RemoveItem deletes an item by id. An absent id is a silent no-op
// that still rewrites the collection.
func (s *ListSession) RemoveItem(ctx context.Context, itemID string) ([]models.Item, error) {
	return s.commit(ctx, items.Remove(s.list.Items, itemID))
}

// RenameItem renames an item by id, persists, and adopts the result.
func (s *ListSession) RenameItem(ctx context.Context, itemID, newName string) ([]models.Item, error) {
	next, err := items.Rename(s.list.Items, itemID, newName, s.ascending)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, next)
}

// ToggleItem flips an item's checked flag, persists, and adopts the
// result.
func (s *ListSession) ToggleItem(ctx context.Context, itemID string) ([]models.Item, error) {
	return s.commit(ctx, items.Toggle(s.list.Items, itemID, s.ascending))
}

// Reload re-fetches the list from the store, replacing the snapshot
// with whatever the last writer left there.
func (s *ListSession) Reload(ctx context.Context) error {
	list, err := s.store.GetList(ctx, s.list.ID)
	if err != nil {
		return err
	}
	list.Items = items.Sorted(list.Items, s.ascending)
	s.list = list
	return nil
}

// commit persists the computed collection and adopts it on success.
// The prior snapshot is kept intact until the write succeeds.
func (s *ListSession) commit(ctx context.Context, next []models.Item) ([]models.Item, error) {
	if err := s.store.UpdateListItems(ctx, s.list.ID, next); err != nil {
		slog.Error("Item write failed", "list_id", s.list.ID, "error", err)
		return nil, err
	}
	s.list.Items = next
	return next, nil
}
