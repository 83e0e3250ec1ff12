// Package types provides type definitions for structured data used throughout the resume-refiner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// IssueType classifies a grammar issue.
type IssueType string

// Issue categories reported by the grammar analysis.
const (
	IssueSpelling IssueType = "SPELLING"
	IssueGrammar  IssueType = "GRAMMAR"
	IssueStyle    IssueType = "STYLE"
)

// GrammarIssue is a located, suggested correction tied to a field path.
// ErrorText must be a literal substring of Original.
type GrammarIssue struct {
	ID          string    `json:"id"`
	Path        string    `json:"path" validate:"required"`
	Original    string    `json:"original" validate:"required"`
	ErrorText   string    `json:"errorText" validate:"required"`
	Suggestions []string  `json:"suggestions" validate:"len=3,unique,dive,required"`
	Reason      string    `json:"reason"`
	Type        IssueType `json:"type" validate:"oneof=SPELLING GRAMMAR STYLE"`
}

// issueValidator is shared so struct metadata is parsed once. validator.Validate is safe for
// concurrent use.
var issueValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural contract of an issue returned by the model.
func (g *GrammarIssue) Validate() error {
	return issueValidator.Struct(g)
}

// ChangeType classifies an extraction-time change.
type ChangeType string

// Kinds of extraction-time changes.
const (
	ChangeRemoval      ChangeType = "REMOVAL"
	ChangeAddition     ChangeType = "ADDITION"
	ChangeModification ChangeType = "MODIFICATION"
)

// ExtractionChange records one redaction or normalization performed during extraction.
type ExtractionChange struct {
	ID          string     `json:"id"`
	Type        ChangeType `json:"type"`
	Description string     `json:"description"`
	Reason      string     `json:"reason"`
}

// ExtractionPath is the sentinel field path of change-log entries created at extraction time.
// Those entries are informational and cannot be undone.
const ExtractionPath = "Extraction"

// ChangeLogEntry is an audit record of one accepted or extraction-time edit.
type ChangeLogEntry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	FieldPath     string    `json:"fieldPath"`
	OriginalValue string    `json:"originalValue"`
	NewValue      string    `json:"newValue"`
	Reason        string    `json:"reason"`
	// Offset is the byte position of NewValue in the field right after the edit.
	Offset int `json:"offset,omitempty"`
}

// Undoable reports whether the entry came from an accepted suggestion.
func (e ChangeLogEntry) Undoable() bool {
	return e.FieldPath != ExtractionPath
}
