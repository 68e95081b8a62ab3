package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/models"
)

// CreateList persists a new list, generating an ID and timestamp when
// unset. SharedWith entries, if any, are written to the junction table
// in the same transaction.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}

	itemsJSON, err := marshalItems(list.Items)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO lists (id, name, owner_id, items, invitation_code, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		list.ID, list.Name, list.OwnerID, itemsJSON, list.InvitationCode, list.CreatedAt,
	)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to insert list: %w", err))
	}

	for _, userID := range list.SharedWith {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO list_shares (list_id, user_id) VALUES (?, ?)",
			list.ID, userID,
		)
		if err != nil {
			return apperror.Unavailable(fmt.Errorf("failed to insert share: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// GetList retrieves a full list document by ID, including items and the
// sharedWith set.
func (s *SQLiteStore) GetList(ctx context.Context, listID string) (*models.List, error) {
	list, err := s.scanList(ctx, s.db.QueryRowContext(ctx,
		"SELECT id, name, owner_id, items, invitation_code, created_at FROM lists WHERE id = ?",
		listID,
	))
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("list", listID)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadShares(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListsByOwner returns all lists owned by the user, unordered.
func (s *SQLiteStore) ListsByOwner(ctx context.Context, ownerID string) ([]models.List, error) {
	return s.queryLists(ctx,
		"SELECT id, name, owner_id, items, invitation_code, created_at FROM lists WHERE owner_id = ?",
		ownerID,
	)
}

// ListsBySharedWith returns all lists whose sharedWith set contains the
// user, unordered.
func (s *SQLiteStore) ListsBySharedWith(ctx context.Context, userID string) ([]models.List, error) {
	return s.queryLists(ctx,
		`SELECT l.id, l.name, l.owner_id, l.items, l.invitation_code, l.created_at
		 FROM lists l JOIN list_shares ls ON ls.list_id = l.id
		 WHERE ls.user_id = ?`,
		userID,
	)
}

// ListByInvitationCode retrieves a list by exact code match.
// Returns (nil, nil) when no list carries the code.
func (s *SQLiteStore) ListByInvitationCode(ctx context.Context, code string) (*models.List, error) {
	list, err := s.scanList(ctx, s.db.QueryRowContext(ctx,
		"SELECT id, name, owner_id, items, invitation_code, created_at FROM lists WHERE invitation_code = ?",
		code,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadShares(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateListName overwrites the name field of an existing list.
func (s *SQLiteStore) UpdateListName(ctx context.Context, listID, name string) error {
	return s.updateListField(ctx, listID, "UPDATE lists SET name = ? WHERE id = ?", name)
}

// UpdateListItems replaces the whole item collection. Last writer wins;
// there is no version token to detect a concurrent overwrite.
func (s *SQLiteStore) UpdateListItems(ctx context.Context, listID string, itemList []models.Item) error {
	itemsJSON, err := marshalItems(itemList)
	if err != nil {
		return err
	}
	return s.updateListField(ctx, listID, "UPDATE lists SET items = ? WHERE id = ?", itemsJSON)
}

// UpdateListSharing replaces the sharedWith set and the invitation code
// in one transaction.
func (s *SQLiteStore) UpdateListSharing(ctx context.Context, listID string, sharedWith []string, invitationCode string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE lists SET invitation_code = ? WHERE id = ?",
		invitationCode, listID,
	)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to update invitation code: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to update invitation code: %w", err))
	}
	if n == 0 {
		return apperror.NotFound("list", listID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM list_shares WHERE list_id = ?", listID); err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to clear shares: %w", err))
	}
	for _, userID := range sharedWith {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO list_shares (list_id, user_id) VALUES (?, ?)",
			listID, userID,
		); err != nil {
			return apperror.Unavailable(fmt.Errorf("failed to insert share: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// DeleteList removes a list. The junction table rows go with it via
// the foreign key; nothing else cascades.
func (s *SQLiteStore) DeleteList(ctx context.Context, listID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", listID)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to delete list: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to delete list: %w", err))
	}
	if n == 0 {
		return apperror.NotFound("list", listID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanList reads one list row. Returns sql.ErrNoRows unchanged so
// callers decide between NotFound and (nil, nil).
func (s *SQLiteStore) scanList(ctx context.Context, row rowScanner) (*models.List, error) {
	list := &models.List{}
	var itemsJSON string
	err := row.Scan(&list.ID, &list.Name, &list.OwnerID, &itemsJSON, &list.InvitationCode, &list.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to scan list: %w", err))
	}
	if err := json.Unmarshal([]byte(itemsJSON), &list.Items); err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to decode items: %w", err))
	}
	return list, nil
}

func (s *SQLiteStore) queryLists(ctx context.Context, query string, args ...any) ([]models.List, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to query lists: %w", err))
	}
	defer rows.Close()

	var lists []models.List
	for rows.Next() {
		list, err := s.scanList(ctx, rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Unavailable(fmt.Errorf("failed to iterate lists: %w", err))
	}

	for i := range lists {
		if err := s.loadShares(ctx, &lists[i]); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, list *models.List) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM list_shares WHERE list_id = ?",
		list.ID,
	)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to get shares: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return apperror.Unavailable(fmt.Errorf("failed to scan share: %w", err))
		}
		list.SharedWith = append(list.SharedWith, userID)
	}
	if err := rows.Err(); err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to iterate shares: %w", err))
	}
	return nil
}

func (s *SQLiteStore) updateListField(ctx context.Context, listID, query string, value any) error {
	res, err := s.db.ExecContext(ctx, query, value, listID)
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to update list: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable(fmt.Errorf("failed to update list: %w", err))
	}
	if n == 0 {
		return apperror.NotFound("list", listID)
	}
	return nil
}

// marshalItems encodes the item collection for the JSON column. An
// empty or nil collection is stored as an empty array so decoding never
// sees SQL NULL.
func marshalItems(itemList []models.Item) (string, error) {
	if len(itemList) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(itemList)
	if err != nil {
		return "", fmt.Errorf("failed to encode items: %w", err)
	}
	return string(b), nil
}
