package repositories

import "errors"

var (
	// ErrNotFound is wrapped by every lookup that matched no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is wrapped when a set-like insert (follow edge, like) already exists.
	ErrDuplicate = errors.New("record already exists")
)
