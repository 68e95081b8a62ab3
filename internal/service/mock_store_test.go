package service

import (
	"context"
	"fmt"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/models"
	"github.com/mquell/listling/internal/storage"
)

// mockStore is an in-memory storage.Store for service tests. failWith,
// when set, makes every call fail, simulating an unreachable store.
type mockStore struct {
	users    map[string]*models.User
	lists    map[string]*models.List
	nextID   int
	failWith error
}

var _ storage.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		users: make(map[string]*models.User),
		lists: make(map[string]*models.List),
	}
}

func (m *mockStore) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockStore) CreateUser(_ context.Context, user *models.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	if user.ID == "" {
		user.ID = m.genID("user")
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	u := *user
	return &u, nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, user := range m.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpdateUsername(_ context.Context, userID, username string) error {
	if m.failWith != nil {
		return m.failWith
	}
	user, ok := m.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	user.Username = username
	return nil
}

func (m *mockStore) CreateList(_ context.Context, list *models.List) error {
	if m.failWith != nil {
		return m.failWith
	}
	if list.ID == "" {
		list.ID = m.genID("list")
	}
	stored := *list
	stored.Items = append([]models.Item{}, list.Items...)
	stored.SharedWith = append([]string{}, list.SharedWith...)
	m.lists[list.ID] = &stored
	return nil
}

func (m *mockStore) GetList(_ context.Context, listID string) (*models.List, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	list, ok := m.lists[listID]
	if !ok {
		return nil, apperror.NotFound("list", listID)
	}
	l := *list
	l.Items = append([]models.Item{}, list.Items...)
	l.SharedWith = append([]string{}, list.SharedWith...)
	return &l, nil
}

func (m *mockStore) ListsByOwner(_ context.Context, ownerID string) ([]models.List, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.List
	for _, list := range m.lists {
		if list.OwnerID == ownerID {
			out = append(out, *list)
		}
	}
	return out, nil
}

func (m *mockStore) ListsBySharedWith(_ context.Context, userID string) ([]models.List, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.List
	for _, list := range m.lists {
		for _, id := range list.SharedWith {
			if id == userID {
				out = append(out, *list)
				break
			}
		}
	}
	return out, nil
}

func (m *mockStore) ListByInvitationCode(_ context.Context, code string) (*models.List, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, list := range m.lists {
		if list.InvitationCode == code {
			l := *list
			l.SharedWith = append([]string{}, list.SharedWith...)
			return &l, nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpdateListName(_ context.Context, listID, name string) error {
	if m.failWith != nil {
		return m.failWith
	}
	list, ok := m.lists[listID]
	if !ok {
		return apperror.NotFound("list", listID)
	}
	list.Name = name
	return nil
}

func (m *mockStore) UpdateListItems(_ context.Context, listID string, itemList []models.Item) error {
	if m.failWith != nil {
		return m.failWith
	}
	list, ok := m.lists[listID]
	if !ok {
		return apperror.NotFound("list", listID)
	}
	list.Items = append([]models.Item{}, itemList...)
	return nil
}

func (m *mockStore) UpdateListSharing(_ context.Context, listID string, sharedWith []string, invitationCode string) error {
	if m.failWith != nil {
		return m.failWith
	}
	list, ok := m.lists[listID]
	if !ok {
		return apperror.NotFound("list", listID)
	}
	list.SharedWith = append([]string{}, sharedWith...)
	list.InvitationCode = invitationCode
	return nil
}

func (m *mockStore) DeleteList(_ context.Context, listID string) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.lists[listID]; !ok {
		return apperror.NotFound("list", listID)
	}
	delete(m.lists, listID)
	return nil
}

func (m *mockStore) Close() error { return nil }
