package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"full state lower case", "san francisco, california", "San Francisco, CA"},
		{"already normalized", "Austin, TX", "Austin, TX"},
		{"two letter lower", "austin, tx", "Austin, TX"},
		{"multi word state", "ALBANY, NEW YORK", "Albany, NY"},
		{"unknown region", "toronto, ontario", "Toronto, Ontario"},
		{"city only", "remote", "Remote"},
		{"extra segments kept", "Berlin, berlin, Germany", "Berlin, Berlin, Germany"},
		{"surrounding whitespace", "  seattle ,  washington ", "Seattle, WA"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLocation(tt.input))
		})
	}
}

func TestStateCode(t *testing.T) {
	code, ok := StateCode("North  Carolina")
	assert.True(t, ok)
	assert.Equal(t, "NC", code)

	_, ok = StateCode("Ontario")
	assert.False(t, ok)
	assert.Len(t, stateCodes, 50)
}
