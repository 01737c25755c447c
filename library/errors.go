package library

import "fmt"

// LoadError reports a library document that could not be read: missing
// file, malformed JSON, or an invalid record set.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load library %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load library %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DuplicateIDError reports an Add whose id is already in the library.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("game id %q already exists in the library", e.ID)
}

// NotFoundError reports an Update for an id the library does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("game id %q not found in the library", e.ID)
}
