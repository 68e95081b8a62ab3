package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "listling-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		user := &models.User{Username: "alice"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetUserByUsername finds existing user", func(t *testing.T) {
		user := &models.User{Username: "bob"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		got, err := store.GetUserByUsername(ctx, "bob")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Errorf("got %+v, want user with ID %s", got, user.ID)
		}
	})

	t.Run("GetUserByUsername returns nil for absent name", func(t *testing.T) {
		got, err := store.GetUserByUsername(ctx, "nobody")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("GetUserByID returns NotFound for absent id", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nonexistent")
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateUsername overwrites the name", func(t *testing.T) {
		user := &models.User{Username: "carol"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if err := store.UpdateUsername(ctx, user.ID, "caroline"); err != nil {
			t.Fatalf("UpdateUsername failed: %v", err)
		}
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Username != "caroline" {
			t.Errorf("Username = %s, want caroline", got.Username)
		}
	})

	t.Run("UpdateUsername on absent user is NotFound", func(t *testing.T) {
		err := store.UpdateUsername(ctx, "nonexistent", "name")
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestLists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := &models.User{Username: "owner"}
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("CreateList and GetList round-trip", func(t *testing.T) {
		list := &models.List{
			Name:           "Groceries",
			OwnerID:        owner.ID,
			InvitationCode: "Ab3dEf9h",
			Items: []models.Item{
				{ID: "1700000000000", Name: "milk", Checked: false},
				{ID: "1700000000001", Name: "eggs", Checked: true},
			},
		}
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		if list.ID == "" {
			t.Fatal("Expected list ID to be generated")
		}

		got, err := store.GetList(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if got.Name != "Groceries" || got.OwnerID != owner.ID {
			t.Errorf("got %+v", got)
		}
		if got.InvitationCode != "Ab3dEf9h" {
			t.Errorf("InvitationCode = %s", got.InvitationCode)
		}
		if len(got.Items) != 2 || got.Items[1].Name != "eggs" || !got.Items[1].Checked {
			t.Errorf("Items = %+v", got.Items)
		}
	})

	t.Run("GetList returns NotFound for absent id", func(t *testing.T) {
		_, err := store.GetList(ctx, "nonexistent")
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListsByOwner returns only that owner's lists", func(t *testing.T) {
		other := &models.User{Username: "other"}
		if err := store.CreateUser(ctx, other); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		otherList := &models.List{Name: "Theirs", OwnerID: other.ID, InvitationCode: "Zz0yXx1w"}
		if err := store.CreateList(ctx, otherList); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		lists, err := store.ListsByOwner(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListsByOwner failed: %v", err)
		}
		if len(lists) != 1 || lists[0].Name != "Theirs" {
			t.Errorf("got %+v", lists)
		}
	})

	t.Run("UpdateListItems replaces the whole collection", func(t *testing.T) {
		list := &models.List{Name: "Replace", OwnerID: owner.ID, InvitationCode: "Qq2wEe3r"}
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		next := []models.Item{{ID: "1", Name: "bread", Checked: false}}
		if err := store.UpdateListItems(ctx, list.ID, next); err != nil {
			t.Fatalf("UpdateListItems failed: %v", err)
		}

		got, err := store.GetList(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if len(got.Items) != 1 || got.Items[0].Name != "bread" {
			t.Errorf("Items = %+v", got.Items)
		}

		// Emptying the collection stores an empty array, not NULL.
		if err := store.UpdateListItems(ctx, list.ID, nil); err != nil {
			t.Fatalf("UpdateListItems(nil) failed: %v", err)
		}
		got, err = store.GetList(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if len(got.Items) != 0 {
			t.Errorf("Items = %+v, want empty", got.Items)
		}
	})

	t.Run("UpdateListSharing replaces members and code", func(t *testing.T) {
		list := &models.List{Name: "Shared", OwnerID: owner.ID, InvitationCode: "Aa1bBc2d"}
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		if err := store.UpdateListSharing(ctx, list.ID, []string{owner.ID, "friend-id"}, "Nn9mMk8j"); err != nil {
			t.Fatalf("UpdateListSharing failed: %v", err)
		}

		got, err := store.GetList(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if len(got.SharedWith) != 2 {
			t.Errorf("SharedWith = %v", got.SharedWith)
		}
		if got.InvitationCode != "Nn9mMk8j" {
			t.Errorf("InvitationCode = %s", got.InvitationCode)
		}

		// The old code no longer resolves; the new one does.
		byOld, err := store.ListByInvitationCode(ctx, "Aa1bBc2d")
		if err != nil {
			t.Fatalf("ListByInvitationCode failed: %v", err)
		}
		if byOld != nil {
			t.Errorf("old code still resolves to %+v", byOld)
		}
		byNew, err := store.ListByInvitationCode(ctx, "Nn9mMk8j")
		if err != nil {
			t.Fatalf("ListByInvitationCode failed: %v", err)
		}
		if byNew == nil || byNew.ID != list.ID {
			t.Errorf("new code resolved to %+v", byNew)
		}
	})

	t.Run("ListsBySharedWith follows the junction table", func(t *testing.T) {
		member := &models.User{Username: "member"}
		if err := store.CreateUser(ctx, member); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		list := &models.List{
			Name:           "Trip",
			OwnerID:        owner.ID,
			InvitationCode: "Tt5rRe4w",
			SharedWith:     []string{member.ID},
		}
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		lists, err := store.ListsBySharedWith(ctx, member.ID)
		if err != nil {
			t.Fatalf("ListsBySharedWith failed: %v", err)
		}
		if len(lists) != 1 || lists[0].ID != list.ID {
			t.Errorf("got %+v", lists)
		}
		if len(lists[0].SharedWith) != 1 || lists[0].SharedWith[0] != member.ID {
			t.Errorf("SharedWith = %v", lists[0].SharedWith)
		}
	})

	t.Run("DeleteList removes list and shares", func(t *testing.T) {
		list := &models.List{
			Name:           "Doomed",
			OwnerID:        owner.ID,
			InvitationCode: "Gg6hHj7k",
			SharedWith:     []string{"someone"},
		}
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		if err := store.DeleteList(ctx, list.ID); err != nil {
			t.Fatalf("DeleteList failed: %v", err)
		}
		if _, err := store.GetList(ctx, list.ID); !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
		lists, err := store.ListsBySharedWith(ctx, "someone")
		if err != nil {
			t.Fatalf("ListsBySharedWith failed: %v", err)
		}
		if len(lists) != 0 {
			t.Errorf("shares survived delete: %+v", lists)
		}
	})

	t.Run("DeleteList on absent id is NotFound", func(t *testing.T) {
		err := store.DeleteList(ctx, "nonexistent")
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
