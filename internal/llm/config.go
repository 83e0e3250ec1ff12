// Package llm provides the model-invocation machinery shared by extraction and grammar analysis:
// a provider-agnostic request shape, the Gemini invoker, and credential/model rotation.
package llm

import "fmt"

// MaxAttempts caps the model calls made for one request, whatever the pool and model list sizes.
const MaxAttempts = 3

// DefaultModels is the priority-ordered model list. It is not configurable.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.5-flash-lite",
}

// Credential is one named API key in the pool.
type Credential struct {
	Name string
	Key  string
}

// String names the credential without leaking the key.
func (c Credential) String() string {
	return fmt.Sprintf("%s(%d chars)", c.Name, len(c.Key))
}

// Generation holds sampling settings applied to every call. Zero MaxOutputTokens leaves the
// model default.
type Generation struct {
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultGeneration keeps output close to deterministic; both extraction and review want
// verbatim text back, not creative rewrites.
func DefaultGeneration() Generation {
	return Generation{Temperature: 0.1}
}
