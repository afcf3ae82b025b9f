package repositories

import "errors"

// ErrEdgeExists is returned when an active relationship edge already exists
// between a pair of users.
var ErrEdgeExists = errors.New("an active relationship already exists between these users")

// ErrLikeNotFound is returned when a like row to delete does not exist.
var ErrLikeNotFound = errors.New("like not found")
