package grammar

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/review"
	"github.com/jonathan/resume-refiner/internal/types"
)

// Sanitize enforces the response contract against the live record. Issues are kept only when
// the path resolves to a string, the error text occurs in it and three distinct suggestions
// remain. Original is reset to the live value, paths are normalized and missing or duplicate
// IDs are replaced. The result is never nil.
func Sanitize(record *types.ResumeRecord, issues []types.GrammarIssue, logger *zap.Logger) []types.GrammarIssue {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]types.GrammarIssue, 0, len(issues))
	seenIDs := make(map[string]bool, len(issues))
	seenSpans := make(map[string]bool, len(issues))

	for _, issue := range issues {
		drop := func(reason string) {
			logger.Debug("dropping grammar issue",
				zap.String("reason", reason),
				zap.String("path", issue.Path),
				zap.String("error_text", issue.ErrorText),
			)
		}

		issue.Path = review.NormalizePath(issue.Path)
		value, ok := review.GetString(record, issue.Path)
		if !ok {
			drop("path does not resolve")
			continue
		}
		if issue.ErrorText == "" || !strings.Contains(value, issue.ErrorText) {
			drop("error text not in field")
			continue
		}
		issue.Original = value
		issue.Type = types.IssueType(strings.ToUpper(strings.TrimSpace(string(issue.Type))))
		issue.Suggestions = distinctSuggestions(issue.Suggestions, issue.ErrorText)
		if len(issue.Suggestions) > 3 {
			issue.Suggestions = issue.Suggestions[:3]
		}
		if err := issue.Validate(); err != nil {
			drop(err.Error())
			continue
		}

		span := issue.Path + "\x00" + issue.ErrorText
		if seenSpans[span] {
			drop("duplicate")
			continue
		}
		seenSpans[span] = true

		if issue.ID == "" || seenIDs[issue.ID] {
			issue.ID = uuid.NewString()
		}
		seenIDs[issue.ID] = true
		out = append(out, issue)
	}

	if dropped := len(issues) - len(out); dropped > 0 {
		logger.Warn("dropped grammar issues that break the response contract",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(out)),
		)
	}
	return out
}

// distinctSuggestions trims suggestions and removes blanks, repeats and no-op replacements.
func distinctSuggestions(in []string, errorText string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || s == errorText || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
