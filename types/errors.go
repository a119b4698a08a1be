package types

import "fmt"

// InvalidDocumentError marks validation failures: unsupported extensions,
// files the extractor cannot parse, empty extraction output.
type InvalidDocumentError struct {
	Message string
}

func (e InvalidDocumentError) Error() string {
	return "invalid document: " + e.Message
}

func NewInvalidDocumentError(format string, args ...any) InvalidDocumentError {
	return InvalidDocumentError{Message: fmt.Sprintf(format, args...)}
}

// StorageError marks object store read/write/bucket failures.
type StorageError struct {
	Message string
	Err     error
}

func (e StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document storage error: %s: %v", e.Message, e.Err)
	}
	return "document storage error: " + e.Message
}

func (e StorageError) Unwrap() error { return e.Err }

// VectorStoreError marks vector index write and initialization failures.
type VectorStoreError struct {
	Message string
	Err     error
}

func (e VectorStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vector storage error: %s: %v", e.Message, e.Err)
	}
	return "vector storage error: " + e.Message
}

func (e VectorStoreError) Unwrap() error { return e.Err }

// SearchError marks vector index query failures.
type SearchError struct {
	Message string
	Err     error
}

func (e SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vector search error: %s: %v", e.Message, e.Err)
	}
	return "vector search error: " + e.Message
}

func (e SearchError) Unwrap() error { return e.Err }

// EmbeddingError marks embedding generation failures.
type EmbeddingError struct {
	Message string
	Err     error
}

func (e EmbeddingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding generation error: %s: %v", e.Message, e.Err)
	}
	return "embedding generation error: " + e.Message
}

func (e EmbeddingError) Unwrap() error { return e.Err }
