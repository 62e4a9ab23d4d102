package firestore

import "errors"

// ErrNotFound is returned when a lookup or mutation targets an id with no
// matching entity
var ErrNotFound = errors.New("not found")
