// Package firestore provides a Google Cloud Firestore implementation of
// the storage.Store interface.
//
// Firestore is the store the mobile clients were built against: users
// and lists collections, queries by field equality and array
// membership, and whole-field updates on list documents. Document IDs
// are Firestore-assigned and carried on the model structs outside the
// document body (the ID fields are tagged firestore:"-").
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/models"
	"github.com/mquell/listling/internal/storage"
)

const (
	usersCollection = "users"
	listsCollection = "lists"
)

var _ storage.Store = (*FirestoreStore)(nil)

// FirestoreStore implements storage.Store using Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// New creates a FirestoreStore for the given GCP project, using
// application default credentials.
func New(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close closes the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// CreateUser persists a new user under a Firestore-assigned document ID.
func (s *FirestoreStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	ref := s.client.Collection(usersCollection).NewDoc()
	if _, err := ref.Create(ctx, user); err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to create user: %w", err))
	}
	user.ID = ref.ID
	return nil
}

// GetUserByID retrieves a user document by ID.
func (s *FirestoreStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to get user: %w", err))
	}
	return decodeUser(snap)
}

// GetUserByUsername queries users by exact username match. Returns
// (nil, nil) when no document carries the name.
func (s *FirestoreStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	iter := s.client.Collection(usersCollection).
		Where("username", "==", username).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to query user by username: %w", err))
	}
	return decodeUser(snap)
}

// UpdateUsername overwrites the username field of an existing user.
func (s *FirestoreStore) UpdateUsername(ctx context.Context, userID, username string) error {
	_, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "username", Value: username},
	})
	if status.Code(err) == codes.NotFound {
		return apperror.NotFound("user", userID)
	}
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to update username: %w", err))
	}
	return nil
}

// CreateList persists a new list under a Firestore-assigned document ID.
func (s *FirestoreStore) CreateList(ctx context.Context, list *models.List) error {
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}
	if list.Items == nil {
		list.Items = []models.Item{}
	}
	if list.SharedWith == nil {
		list.SharedWith = []string{}
	}
	ref := s.client.Collection(listsCollection).NewDoc()
	if _, err := ref.Create(ctx, list); err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to create list: %w", err))
	}
	list.ID = ref.ID
	return nil
}

// GetList retrieves a full list document by ID.
func (s *FirestoreStore) GetList(ctx context.Context, listID string) (*models.List, error) {
	snap, err := s.client.Collection(listsCollection).Doc(listID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, apperror.NotFound("list", listID)
	}
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to get list: %w", err))
	}
	return decodeList(snap)
}

// ListsByOwner queries lists by owner, unordered.
func (s *FirestoreStore) ListsByOwner(ctx context.Context, ownerID string) ([]models.List, error) {
	return s.queryLists(ctx, s.client.Collection(listsCollection).
		Where("ownerId", "==", ownerID).
		Documents(ctx))
}

// ListsBySharedWith queries lists whose sharedWith array contains the
// user, unordered.
func (s *FirestoreStore) ListsBySharedWith(ctx context.Context, userID string) ([]models.List, error) {
	return s.queryLists(ctx, s.client.Collection(listsCollection).
		Where("sharedWith", "array-contains", userID).
		Documents(ctx))
}

// ListByInvitationCode queries lists by exact code match. Returns
// (nil, nil) when no document carries the code.
func (s *FirestoreStore) ListByInvitationCode(ctx context.Context, code string) (*models.List, error) {
	iter := s.client.Collection(listsCollection).
		Where("invitationCode", "==", code).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to query list by code: %w", err))
	}
	return decodeList(snap)
}

// UpdateListName overwrites the name field of an existing list.
func (s *FirestoreStore) UpdateListName(ctx context.Context, listID, name string) error {
	return s.updateList(ctx, listID, []firestore.Update{
		{Path: "name", Value: name},
	})
}

// UpdateListItems replaces the whole items field. Last writer wins.
func (s *FirestoreStore) UpdateListItems(ctx context.Context, listID string, itemList []models.Item) error {
	if itemList == nil {
		itemList = []models.Item{}
	}
	return s.updateList(ctx, listID, []firestore.Update{
		{Path: "items", Value: itemList},
	})
}

// UpdateListSharing replaces the sharedWith array and the invitation
// code in one write.
func (s *FirestoreStore) UpdateListSharing(ctx context.Context, listID string, sharedWith []string, invitationCode string) error {
	if sharedWith == nil {
		sharedWith = []string{}
	}
	return s.updateList(ctx, listID, []firestore.Update{
		{Path: "sharedWith", Value: sharedWith},
		{Path: "invitationCode", Value: invitationCode},
	})
}

// DeleteList removes a list document. Firestore deletes are idempotent,
// so absence is checked first to honor the NotFound contract.
func (s *FirestoreStore) DeleteList(ctx context.Context, listID string) error {
	ref := s.client.Collection(listsCollection).Doc(listID)
	if _, err := ref.Get(ctx); status.Code(err) == codes.NotFound {
		return apperror.NotFound("list", listID)
	} else if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to get list: %w", err))
	}
	if _, err := ref.Delete(ctx); err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to delete list: %w", err))
	}
	return nil
}

func (s *FirestoreStore) updateList(ctx context.Context, listID string, updates []firestore.Update) error {
	_, err := s.client.Collection(listsCollection).Doc(listID).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return apperror.NotFound("list", listID)
	}
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to update list: %w", err))
	}
	return nil
}

func (s *FirestoreStore) queryLists(ctx context.Context, iter *firestore.DocumentIterator) ([]models.List, error) {
	defer iter.Stop()

	var lists []models.List
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperror.Unavailable(fmt.Errorf("failed to iterate lists: %w", err))
		}
		list, err := decodeList(snap)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	return lists, nil
}

func decodeUser(snap *firestore.DocumentSnapshot) (*models.User, error) {
	user := &models.User{}
	if err := snap.DataTo(user); err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to decode user: %w", err))
	}
	user.ID = snap.Ref.ID
	return user, nil
}

func decodeList(snap *firestore.DocumentSnapshot) (*models.List, error) {
	list := &models.List{}
	if err := snap.DataTo(list); err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to decode list: %w", err))
	}
	list.ID = snap.Ref.ID
	return list, nil
}
