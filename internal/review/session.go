// Package review holds the per-session review state: the current résumé record, the open
// grammar issues and the change log, plus the accept/ignore/undo operations over them.
//
// The record is copy-on-write. Every mutation clones the current record, edits the clone and
// then swaps it in, so a *types.ResumeRecord obtained from Record is never modified afterwards.
package review

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/types"
)

// Outcome describes the effect of an accept or undo.
type Outcome struct {
	Applied bool
	Entry   *types.ChangeLogEntry
	// Reason explains a no-op.
	Reason string
}

// Session is the review state of one résumé.
type Session struct {
	mu     sync.RWMutex
	record *types.ResumeRecord
	issues []types.GrammarIssue
	// changes is kept oldest first; ChangeLog reverses it.
	changes []types.ChangeLogEntry
	now     func() time.Time
	logger  *zap.Logger
}

// NewSession starts a review of record. Extraction-time changes are seeded into the change log.
func NewSession(record *types.ResumeRecord, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{now: time.Now, logger: logger}
	s.Load(record)
	return s
}

// Load replaces the record after a (re-)extraction and clears issues and the change log.
func (s *Session) Load(record *types.ResumeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = record.Clone()
	s.issues = nil
	s.changes = nil
	if record == nil {
		return
	}
	ts := s.now()
	for _, c := range record.ExtractionChanges {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		s.changes = append(s.changes, types.ChangeLogEntry{
			ID:            id,
			Timestamp:     ts,
			FieldPath:     types.ExtractionPath,
			OriginalValue: string(c.Type),
			NewValue:      c.Description,
			Reason:        c.Reason,
		})
	}
}

// Reset tears the session down: record, issues and change log are dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	s.issues = nil
	s.changes = nil
}

// Record returns the current record. Callers must treat it as read-only.
func (s *Session) Record() *types.ResumeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// SetIssues replaces the open issue list, typically with fresh analysis results.
func (s *Session) SetIssues(issues []types.GrammarIssue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = append([]types.GrammarIssue(nil), issues...)
}

// Issues returns a copy of the open issues.
func (s *Session) Issues() []types.GrammarIssue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.GrammarIssue{}, s.issues...)
}

// ChangeLog returns the change log, newest first.
func (s *Session) ChangeLog() []types.ChangeLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ChangeLogEntry, len(s.changes))
	for i, e := range s.changes {
		out[len(s.changes)-1-i] = e
	}
	return out
}

// Accept applies a suggestion for an open issue. An empty suggestion selects the first one.
//
// The issue leaves the open list in every case. When its path no longer resolves or its error
// text is no longer in the field, the record is left alone and the Outcome is not applied.
func (s *Session) Accept(issueID, suggestion string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return Outcome{}, ErrNoRecord
	}
	pos := s.findIssue(issueID)
	if pos < 0 {
		return Outcome{}, ErrIssueNotFound
	}
	issue := s.issues[pos]
	if suggestion == "" {
		if len(issue.Suggestions) == 0 {
			return Outcome{}, ErrInvalidSuggestion
		}
		suggestion = issue.Suggestions[0]
	} else if !contains(issue.Suggestions, suggestion) {
		return Outcome{}, ErrInvalidSuggestion
	}
	s.issues = append(s.issues[:pos:pos], s.issues[pos+1:]...)

	next := s.record.Clone()
	field, err := locate(next, issue.Path)
	if err != nil {
		s.logger.Warn("skipping stale issue", zap.String("issue", issue.ID), zap.Error(err))
		return Outcome{Reason: err.Error()}, nil
	}
	at := strings.Index(*field, issue.ErrorText)
	if issue.ErrorText == "" || at < 0 {
		s.logger.Warn("skipping stale issue: text no longer present",
			zap.String("issue", issue.ID),
			zap.String("path", issue.Path),
			zap.String("error_text", issue.ErrorText),
		)
		return Outcome{Reason: "flagged text no longer present"}, nil
	}
	*field = (*field)[:at] + suggestion + (*field)[at+len(issue.ErrorText):]

	entry := types.ChangeLogEntry{
		ID:            uuid.NewString(),
		Timestamp:     s.now(),
		FieldPath:     NormalizePath(issue.Path),
		OriginalValue: issue.ErrorText,
		NewValue:      suggestion,
		Reason:        issue.Reason,
		Offset:        at,
	}
	s.record = next
	s.changes = append(s.changes, entry)
	return Outcome{Applied: true, Entry: &entry}, nil
}

// Ignore drops an open issue without touching the record or the change log.
func (s *Session) Ignore(issueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.findIssue(issueID)
	if pos < 0 {
		return ErrIssueNotFound
	}
	s.issues = append(s.issues[:pos:pos], s.issues[pos+1:]...)
	return nil
}

// Undo reverts an accepted change and removes its log entry. The issue it came from is not
// reopened. If the replacement text is no longer in the field the record and log are unchanged.
func (s *Session) Undo(entryID string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return Outcome{}, ErrNoRecord
	}
	pos := -1
	for i, e := range s.changes {
		if e.ID == entryID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return Outcome{}, ErrEntryNotFound
	}
	entry := s.changes[pos]
	if !entry.Undoable() {
		return Outcome{}, ErrNotUndoable
	}

	next := s.record.Clone()
	field, err := locate(next, entry.FieldPath)
	if err != nil {
		s.logger.Warn("cannot undo change", zap.String("entry", entry.ID), zap.Error(err))
		return Outcome{Reason: err.Error()}, nil
	}
	at := entry.Offset
	if at < 0 || at+len(entry.NewValue) > len(*field) || (*field)[at:at+len(entry.NewValue)] != entry.NewValue {
		at = strings.Index(*field, entry.NewValue)
	}
	if entry.NewValue == "" || at < 0 {
		s.logger.Warn("cannot undo change: text no longer present",
			zap.String("entry", entry.ID),
			zap.String("path", entry.FieldPath),
		)
		return Outcome{Reason: "changed text no longer present"}, nil
	}
	*field = (*field)[:at] + entry.OriginalValue + (*field)[at+len(entry.NewValue):]

	s.record = next
	s.changes = append(s.changes[:pos:pos], s.changes[pos+1:]...)
	return Outcome{Applied: true, Entry: &entry}, nil
}

// AcceptAll accepts the first suggestion of every open issue of the given type, one at a time.
// It returns how many were applied.
func (s *Session) AcceptAll(kind types.IssueType) (int, error) {
	var ids []string
	for _, issue := range s.Issues() {
		if issue.Type == kind {
			ids = append(ids, issue.ID)
		}
	}
	applied := 0
	for _, id := range ids {
		out, err := s.Accept(id, "")
		if err != nil {
			return applied, err
		}
		if out.Applied {
			applied++
		}
	}
	return applied, nil
}

func (s *Session) findIssue(id string) int {
	for i, issue := range s.issues {
		if issue.ID == id {
			return i
		}
	}
	return -1
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
