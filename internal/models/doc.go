// Package models defines the core domain models for Listling.
//
// # Entities
//
//   - User: a registered username. There is no credential; the username
//     string is the whole identity.
//   - List: a named, checkable to-do list owned by one user and optionally
//     shared with others.
//   - Item: a single entry embedded in a List. Items have no identity in
//     the store outside their containing list; the item array is always
//     read and written as a whole.
//
// # Design Principles
//
//  1. **Document shape**: List carries its items inline, the way the
//     backing document store holds them. Mutations replace the whole
//     items field (last writer wins, no merge).
//  2. **Weak references**: SharedWith holds user IDs, not pointers.
//     Deleting a user or list never cascades.
//  3. **Dual tags**: every persisted field carries both firestore and
//     json tags so the same structs serve the Firestore backend and the
//     HTTP API.
package models
