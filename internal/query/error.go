package query

import "errors"

// Error definitions for the query package.
var (
	ErrInconsistentSamplingRate = errors.New("batch queries carry different sampling rates")
	ErrEmptyBatch               = errors.New("batch has no queries")
)
