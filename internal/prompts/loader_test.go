package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	ClearCache()

	text, err := Get(ExtractionFile, "system")
	require.NoError(t, err)
	assert.Contains(t, text, "extract_resume")

	_, err = Get("nonexistent.json", "system")
	assert.ErrorContains(t, err, "failed to read prompt file")

	_, err = Get(GrammarFile, "nonexistent-key")
	assert.ErrorContains(t, err, "not found")
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() { MustGet("nonexistent.json", "system") })

	for _, key := range []string{"system", "categories", "exclusions", "contract", "user"} {
		assert.NotEmpty(t, MustGet(GrammarFile, key), key)
	}
	for _, key := range []string{"verbatim", "routing", "privacy", "changes", "splitting", "dates", "user", "user-binary"} {
		assert.NotEmpty(t, MustGet(ExtractionFile, key), key)
	}
}

func TestCompose(t *testing.T) {
	out, err := Compose(ExtractionFile, "system", "privacy")
	require.NoError(t, err)
	assert.Equal(t, MustGet(ExtractionFile, "system")+"\n\n"+MustGet(ExtractionFile, "privacy"), out)

	_, err = Compose(ExtractionFile, "system", "missing")
	assert.Error(t, err)

	empty, err := Compose(ExtractionFile)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFormat(t *testing.T) {
	result := Format(MustGet(GrammarFile, "user"), map[string]string{
		"Format": "Classic Professional",
		"Record": `{"fullName":"Jane"}`,
	})
	assert.Contains(t, result, "Classic Professional")
	assert.Contains(t, result, `{"fullName":"Jane"}`)
	assert.NotContains(t, result, "{{.")

	assert.Equal(t, "Hello {{.Name}}", Format("Hello {{.Name}}", nil))
	assert.Equal(t, "Hi Jo, {{.Other}}", Format("Hi {{.Name}}, {{.Other}}", map[string]string{"Name": "Jo"}))
	// values are not re-expanded
	assert.Equal(t, "{{.B}}", Format("{{.A}}", map[string]string{"A": "{{.B}}", "B": "x"}))
}

func TestList(t *testing.T) {
	keys, err := List(ExtractionFile)
	require.NoError(t, err)
	assert.Contains(t, keys, "privacy")
	assert.IsNonDecreasing(t, keys)
}

func TestCacheReusesParsedFile(t *testing.T) {
	ClearCache()
	_, err := Get(GrammarFile, "contract")
	require.NoError(t, err)
	_, cached := books[GrammarFile]
	assert.True(t, cached)

	ClearCache()
	assert.Empty(t, books)
}
