package pipeline

import "errors"

// ErrEmptySourceText is returned when a document has nothing to segment.
var ErrEmptySourceText = errors.New("source text is empty")
