package preset

import "errors"

// Error definitions for the preset package.
var (
	ErrNotFound    = errors.New("preset not found")
	ErrDuplicateID = errors.New("preset id already exists")
)
