package models

// List represents a to-do list owned by one user.
//
// A list always carries an invitation code, generated at creation. The
// code is only surfaced to the owner when the list is converted to
// shared, and converting regenerates it, permanently invalidating any
// previously handed-out code.
type List struct {
	// ID is the unique identifier for the list.
	ID string `firestore:"-" json:"id"`

	// Name is the display name. Unique among lists owned by the same
	// user (checked at create and rename, not enforced by the store).
	Name string `firestore:"name" json:"name"`

	// OwnerID references the user who created the list.
	OwnerID string `firestore:"ownerId" json:"ownerId"`

	// Items is the embedded item collection, kept sorted by the
	// ordering rules in the items package. Replaced whole on every
	// mutation.
	Items []Item `firestore:"items" json:"items"`

	// SharedWith is the set of user IDs granted access beyond the
	// owner. Entries are weak references; deleting a user leaves them
	// dangling.
	SharedWith []string `firestore:"sharedWith" json:"sharedWith"`

	// InvitationCode is the 8-character join token. Always present,
	// only meaningful to others once the list has been shared.
	InvitationCode string `firestore:"invitationCode" json:"invitationCode,omitempty"`

	// CreatedAt is the Unix timestamp when the list was created.
	CreatedAt int64 `firestore:"createdAt" json:"createdAt"`
}

// SharedList is a row in another user's shared-lists view: the list plus
// its owner's resolved username.
type SharedList struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OwnerUsername string `json:"ownerUsername"`
}

// Item represents a single checkable entry embedded in a List.
type Item struct {
	// ID is a wall-clock millisecond timestamp string assigned when the
	// item is added. Not globally unique under concurrent creation in
	// the same millisecond; good enough for addressing items inside one
	// list.
	ID string `firestore:"id" json:"id"`

	// Name is case-insensitively unique within the list.
	Name string `firestore:"name" json:"name"`

	// Checked marks the item as done. Checked items sort after
	// unchecked ones.
	Checked bool `firestore:"checked" json:"checked"`
}

// IsSharedWith reports whether the given user has been granted access.
func (l *List) IsSharedWith(userID string) bool {
	for _, id := range l.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// CanAccess reports whether the user may read or mutate the list,
// either as owner or as a shared member.
func (l *List) CanAccess(userID string) bool {
	return l.OwnerID == userID || l.IsSharedWith(userID)
}
