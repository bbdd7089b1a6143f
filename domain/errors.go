package domain

import "errors"

// ErrNotFound marks lookups for records that do not exist. Callers match
// it with errors.Is.
var ErrNotFound = errors.New("not found")
