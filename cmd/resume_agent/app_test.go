package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/types"
)

func resetGlobalFlags(t *testing.T) {
	t.Cleanup(func() {
		configFile, formatFlag, verbose, debug = "", "", false, false
	})
}

func TestNewApp_MergesFileEnvAndFlags(t *testing.T) {
	resetGlobalFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format":"modern","output_dir":"exports","port":9000}`), 0o644))

	t.Setenv("GEMINI_API_KEYS", "key-a, key-b")
	t.Setenv("PORT", "9100")
	configFile = path

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	a, err := newApp(cmd)
	require.NoError(t, err)
	defer a.close()

	assert.Equal(t, types.FormatModern, a.format())
	assert.Equal(t, "exports", a.cfg.OutputDir)
	assert.Equal(t, 9100, a.cfg.Port)
	assert.Len(t, a.cfg.Credentials, 2)
	assert.Equal(t, 120, a.cfg.ModelTimeoutSeconds)

	formatFlag = "classic"
	a, err = newApp(cmd)
	require.NoError(t, err)
	assert.Equal(t, types.FormatClassic, a.format())
}

func TestNewApp_RejectsBadFormat(t *testing.T) {
	resetGlobalFlags(t)
	formatFlag = "fancy"
	_, err := newApp(&cobra.Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestNewApp_MissingConfigFile(t *testing.T) {
	resetGlobalFlags(t)
	configFile = filepath.Join(t.TempDir(), "missing.json")
	_, err := newApp(&cobra.Command{})
	assert.Error(t, err)
}

func TestReadRecord(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "record.json")
	require.NoError(t, writeJSONFile(valid, testRecord()))
	record, err := readRecord(valid)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.FullName)
	assert.Len(t, record.ExtractionChanges, 1)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"experience":[{"company":"Acme"}]}`), 0o644))
	_, err = readRecord(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is invalid")

	_, err = readRecord(filepath.Join(dir, "nope.json"))
	assert.Error(t, err)
}

func TestWriteJSONFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "record.json")
	require.NoError(t, writeJSONFile(path, map[string]string{"fullName": "Jane"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"fullName\": \"Jane\"")
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\r\n\r\n\r\n\r\nEngineer  at  Acme"), 0o644))

	doc, err := loadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "resume.txt", doc.Filename)
	assert.Equal(t, "text/plain", doc.MIMEType)
	assert.Equal(t, "Jane Doe\n\nEngineer at Acme", doc.Text)

	_, err = loadDocument(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
