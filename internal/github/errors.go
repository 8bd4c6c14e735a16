package github

import "errors"

// ErrNotFound is returned when a requested repository file does not exist at the ref.
var ErrNotFound = errors.New("not found")
