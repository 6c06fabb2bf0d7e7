package ask

import "errors"

// ErrNoRAGService indicates that no answer service was provided.
var ErrNoRAGService = errors.New("rag service is required")
