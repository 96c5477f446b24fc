package domain

import (
	"errors"
	"fmt"
)

var ErrItemNotFound = errors.New("wardrobe item not found")

// EmbeddingError wraps a failure from the embedding backend.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

func IsEmbeddingError(err error) bool {
	var target *EmbeddingError
	return errors.As(err, &target)
}

// SearchError wraps a failure from the vector index.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("similarity search failed: %v", e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

func IsSearchError(err error) bool {
	var target *SearchError
	return errors.As(err, &target)
}

// URLResolutionError wraps a failure to sign a batch of image URLs. A partial
// batch would misalign signed URLs with their results, so the whole batch
// fails together.
type URLResolutionError struct {
	Err error
}

func (e *URLResolutionError) Error() string {
	return fmt.Sprintf("signed url resolution failed: %v", e.Err)
}

func (e *URLResolutionError) Unwrap() error { return e.Err }

func IsURLResolutionError(err error) bool {
	var target *URLResolutionError
	return errors.As(err, &target)
}
