// Package prompts holds the instructions sent to the language model.
// Each embedded file is a JSON object mapping a prompt key to its text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt files.
const (
	ExtractionFile = "extraction.json"
	GrammarFile    = "grammar.json"
)

// book is one parsed prompt file.
type book map[string]string

var (
	mu    sync.Mutex
	books = map[string]book{}
)

func open(filename string) (book, error) {
	mu.Lock()
	defer mu.Unlock()
	if b, ok := books[filename]; ok {
		return b, nil
	}
	raw, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var b book
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("prompt file %s is not a key/text object: %w", filename, err)
	}
	books[filename] = b
	return b, nil
}

// Get returns the prompt stored under key in filename.
func Get(filename, key string) (string, error) {
	b, err := open(filename)
	if err != nil {
		return "", err
	}
	text, ok := b[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// MustGet is Get for prompts compiled into the binary.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic("prompts: " + err.Error())
	}
	return text
}

// Compose joins prompts from one file in key order, separated by blank lines.
func Compose(filename string, keys ...string) (string, error) {
	var sb strings.Builder
	for i, key := range keys {
		text, err := Get(filename, key)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(text))
	}
	return sb.String(), nil
}

// Format fills {{.Key}} placeholders. Placeholders without a value are left as they are.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the keys of a prompt file, sorted.
func List(filename string) ([]string, error) {
	b, err := open(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// ClearCache forgets parsed files.
func ClearCache() {
	mu.Lock()
	books = map[string]book{}
	mu.Unlock()
}
