package review

import (
	"errors"
	"fmt"
)

var (
	// ErrIssueNotFound is returned when an issue ID is not in the open list.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrEntryNotFound is returned when a change-log entry ID does not exist.
	ErrEntryNotFound = errors.New("change log entry not found")
	// ErrNotUndoable is returned for extraction-time entries.
	ErrNotUndoable = errors.New("extraction changes cannot be undone")
	// ErrInvalidSuggestion is returned when the chosen text is not one of the issue's suggestions.
	ErrInvalidSuggestion = errors.New("suggestion does not belong to the issue")
	// ErrNoRecord is returned when the session holds no record.
	ErrNoRecord = errors.New("no resume loaded")
)

// PathError reports a field path that does not address a string in the record.
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("field path %q: %s", e.Path, e.Message)
}
