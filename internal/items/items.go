// Package items implements the ordering and mutation rules for the item
// collection embedded in a list.
//
// Every mutation returns a freshly sorted copy and leaves its input
// untouched, so callers can roll back to their previous snapshot when a
// persist fails.
//
// Ordering convention: unchecked items always sort before checked items;
// completion status is the primary key and is never inverted. Within the
// same status, names compare with locale-aware collation, and a single
// ascending flag (true = A to Z) controls the direction. The default on
// list load is ascending. Mutations and the explicit direction toggle
// use the identical comparator.
package items

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mquell/listling/internal/apperror"
	"github.com/mquell/listling/internal/models"
)

// collate.Collator is not safe for concurrent use.
var (
	collMu sync.Mutex
	coll   = collate.New(language.Und)
)

func compareNames(a, b string) int {
	collMu.Lock()
	defer collMu.Unlock()
	return coll.CompareString(a, b)
}

// Less reports whether a sorts before b under the given direction.
func Less(a, b models.Item, ascending bool) bool {
	if a.Checked != b.Checked {
		return !a.Checked
	}
	cmp := compareNames(a.Name, b.Name)
	if ascending {
		return cmp < 0
	}
	return cmp > 0
}

// Sorted returns a sorted copy of items. The input is not modified.
func Sorted(items []models.Item, ascending bool) []models.Item {
	out := make([]models.Item, len(items))
	copy(out, items)
	// Insertion sort keeps this dependency-free and stable; item counts
	// are small (a hand-curated checklist, not a dataset).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && Less(out[j], out[j-1], ascending); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Add appends a new unchecked item and returns the re-sorted collection.
// The name is trimmed before use; an empty name fails validation and a
// case-insensitive collision with any existing item is a conflict,
// whitespace padding notwithstanding.
func Add(items []models.Item, name string, ascending bool) ([]models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "item name is required")
	}
	if hasItemNamed(items, name, "") {
		return nil, apperror.Conflict("this item already exists in the list")
	}

	out := make([]models.Item, len(items), len(items)+1)
	copy(out, items)
	out = append(out, models.Item{
		ID:      newItemID(),
		Name:    name,
		Checked: false,
	})
	return Sorted(out, ascending), nil
}

// Remove filters out the item with the given id. An absent id is a
// silent no-op; removal never changes relative order, so no re-sort.
func Remove(items []models.Item, id string) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// Rename replaces the name of the item with the given id and returns the
// re-sorted collection. A collision with a *different* item is a
// conflict; renaming an item to its own current name is allowed. An
// absent id is a silent no-op.
func Rename(items []models.Item, id, newName string, ascending bool) ([]models.Item, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperror.ValidationFailed("name", "item name is required")
	}
	if hasItemNamed(items, newName, id) {
		return nil, apperror.Conflict("this item already exists in the list")
	}

	out := make([]models.Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			out[i].Name = newName
		}
	}
	return Sorted(out, ascending), nil
}

// Toggle flips the checked flag of the item with the given id and
// returns the re-sorted collection. Flipping the primary sort key is the
// mutation most likely to visibly reorder the list.
func Toggle(items []models.Item, id string, ascending bool) []models.Item {
	out := make([]models.Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			out[i].Checked = !out[i].Checked
		}
	}
	return Sorted(out, ascending)
}

// hasItemNamed reports whether any item other than excludeID already
// carries the given name, case-insensitively and ignoring padding.
func hasItemNamed(items []models.Item, name, excludeID string) bool {
	for _, it := range items {
		if it.ID == excludeID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(it.Name), name) {
			return true
		}
	}
	return false
}

// newItemID returns the wall-clock millisecond timestamp as a string.
// Not globally unique under concurrent creation within one millisecond;
// sufficient for addressing items inside a single list.
func newItemID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
