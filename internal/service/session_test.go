package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/models"
)

func openSession(t *testing.T) (*ListSession, *mockStore, string) {
	t.Helper()
	store := newMockStore()
	svc := NewListService(store)
	ctx := context.Background()

	list, err := svc.Create(ctx, "owner-1", "Groceries")
	require.NoError(t, err)

	session, err := OpenListSession(ctx, store, list.ID, "owner-1")
	require.NoError(t, err)
	return session, store, list.ID
}

func itemNames(items []models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSessionAddPersistsAndAdopts(t *testing.T) {
	session, store, listID := openSession(t)
	ctx := context.Background()

	_, err := session.AddItem(ctx, "milk")
	require.NoError(t, err)
	got, err := session.AddItem(ctx, "bread")
	require.NoError(t, err)

	// Adopted view is sorted and matches what was written.
	assert.Equal(t, []string{"bread", "milk"}, itemNames(got))
	persisted, err := store.GetList(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, itemNames(got), itemNames(persisted.Items))
}

func TestSessionRollsBackOnFailedPersist(t *testing.T) {
	session, store, listID := openSession(t)
	ctx := context.Background()

	_, err := session.AddItem(ctx, "milk")
	require.NoError(t, err)

	store.failWith = apperror.Unavailable(assert.AnError)
	_, err = session.AddItem(ctx, "bread")
	assert.ErrorIs(t, err, apperror.ErrUnavailable)

	// The local snapshot did not adopt the failed write.
	assert.Equal(t, []string{"milk"}, itemNames(session.List().Items))

	store.failWith = nil
	persisted, err := store.GetList(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, itemNames(persisted.Items))
}

func TestSessionToggleReorders(t *testing.T) {
	session, _, _ := openSession(t)
	ctx := context.Background()

	got, err := session.AddItem(ctx, "milk")
	require.NoError(t, err)
	milkID := got[0].ID
	_, err = session.AddItem(ctx, "eggs")
	require.NoError(t, err)

	// Checking milk sends it below the unchecked eggs.
	got, err = session.ToggleItem(ctx, milkID)
	require.NoError(t, err)
	assert.Equal(t, []string{"eggs", "milk"}, itemNames(got))
	assert.True(t, got[1].Checked)

	// Toggling back restores the original state.
	got, err = session.ToggleItem(ctx, milkID)
	require.NoError(t, err)
	assert.Equal(t, []string{"eggs", "milk"}, itemNames(got))
	assert.False(t, got[1].Checked)
}

func TestSessionRenameAndRemove(t *testing.T) {
	session, _, _ := openSession(t)
	ctx := context.Background()

	got, err := session.AddItem(ctx, "milk")
	require.NoError(t, err)
	milkID := got[0].ID

	got, err = session.RenameItem(ctx, milkID, "oat milk")
	require.NoError(t, err)
	assert.Equal(t, []string{"oat milk"}, itemNames(got))

	got, err = session.RemoveItem(ctx, milkID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionToggleDirection(t *testing.T) {
	session, _, _ := openSession(t)
	ctx := context.Background()

	_, err := session.AddItem(ctx, "milk")
	require.NoError(t, err)
	_, err = session.AddItem(ctx, "bread")
	require.NoError(t, err)

	assert.True(t, session.Ascending())
	assert.Equal(t, []string{"bread", "milk"}, itemNames(session.List().Items))

	asc := session.ToggleDirection()
	assert.False(t, asc)
	assert.Equal(t, []string{"milk", "bread"}, itemNames(session.List().Items))

	// Mutations use the active direction.
	got, err := session.AddItem(ctx, "eggs")
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "eggs", "bread"}, itemNames(got))
}

func TestSessionReloadPicksUpForeignWrites(t *testing.T) {
	session, store, listID := openSession(t)
	ctx := context.Background()

	_, err := session.AddItem(ctx, "milk")
	require.NoError(t, err)

	// Another client overwrites the whole collection; last writer wins.
	foreign := []models.Item{{ID: "x", Name: "cheese", Checked: false}}
	require.NoError(t, store.UpdateListItems(ctx, listID, foreign))

	require.NoError(t, session.Reload(ctx))
	assert.Equal(t, []string{"cheese"}, itemNames(session.List().Items))
}

func TestOpenSessionRequiresAccess(t *testing.T) {
	store := newMockStore()
	svc := NewListService(store)
	ctx := context.Background()

	list, err := svc.Create(ctx, "owner-1", "Private")
	require.NoError(t, err)

	_, err = OpenListSession(ctx, store, list.ID, "stranger")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// A shared member may open it.
	code, err := svc.ConvertToShared(ctx, list.ID, "owner-1")
	require.NoError(t, err)
	_, err = svc.Join(ctx, code, "friend-1")
	require.NoError(t, err)

	session, err := OpenListSession(ctx, store, list.ID, "friend-1")
	require.NoError(t, err)
	assert.Equal(t, list.ID, session.List().ID)
}
