package models

// User represents a registered username.
//
// Usernames are globally unique. Uniqueness is checked by lookup before
// create and rename; the store itself does not enforce it, so two clients
// racing the same name can both win. That gap is inherited from the
// document-store data model and accepted at this scale.
type User struct {
	// ID is the unique identifier for the user (UUID for the SQLite
	// backend, document ID for Firestore).
	ID string `firestore:"-" json:"id"`

	// Username is the display name and the whole identity. No password,
	// no email.
	Username string `firestore:"username" json:"username"`

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64 `firestore:"createdAt" json:"createdAt"`
}
