package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/types"
)

func TestIssuesForField_FiltersAndSorts(t *testing.T) {
	text := "Lead the team to sucess"
	issues := []types.GrammarIssue{
		{ID: "b", Path: "experience[0].description[1]", ErrorText: "sucess"},
		{ID: "a", Path: "experience.0.description.1", ErrorText: "Lead"},
		{ID: "stale", Path: "experience.0.description.1", ErrorText: "teh"},
		{ID: "other", Path: "summary.0", ErrorText: "team"},
	}
	s := newTestSession(t, issues...)

	located := s.IssuesForField("experience.0.description.1", text)
	require.Len(t, located, 2)
	assert.Equal(t, "a", located[0].Issue.ID)
	assert.Equal(t, 0, located[0].Start)
	assert.Equal(t, "b", located[1].Issue.ID)
	assert.Equal(t, 17, located[1].Start)
	assert.Equal(t, 23, located[1].End)
}

func TestSegments(t *testing.T) {
	text := "Lead the team to sucess"
	located := LocateIssues([]types.GrammarIssue{
		{ID: "a", Path: "p", ErrorText: "Lead"},
		{ID: "b", Path: "p", ErrorText: "sucess"},
	}, "p", text)

	segs := Segments(text, located)
	require.Len(t, segs, 3)
	assert.Equal(t, "Lead", segs[0].Text)
	require.NotNil(t, segs[0].Issue)
	assert.Equal(t, "a", segs[0].Issue.ID)
	assert.Equal(t, " the team to ", segs[1].Text)
	assert.Nil(t, segs[1].Issue)
	assert.Equal(t, "sucess", segs[2].Text)
	assert.Equal(t, "b", segs[2].Issue.ID)
}

func TestSegments_OverlapDoesNotPanic(t *testing.T) {
	text := "abcdefgh"
	located := []Located{
		{Issue: types.GrammarIssue{ID: "1"}, Start: 1, End: 5},
		{Issue: types.GrammarIssue{ID: "2"}, Start: 3, End: 7},
		{Issue: types.GrammarIssue{ID: "3"}, Start: 4, End: 6},
		{Issue: types.GrammarIssue{ID: "4"}, Start: 6, End: 40},
	}
	var segs []Segment
	assert.NotPanics(t, func() { segs = Segments(text, located) })

	joined := ""
	for _, s := range segs {
		joined += s.Text
	}
	assert.Equal(t, text, joined)
}

func TestSegments_NoIssues(t *testing.T) {
	segs := Segments("plain", nil)
	require.Len(t, segs, 1)
	assert.Equal(t, "plain", segs[0].Text)
	assert.Nil(t, segs[0].Issue)
}
