package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCommand_MissingArgument(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "extract").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "accepts 1 arg(s), received 0")
}

func TestExtractCommand_UnsupportedFile(t *testing.T) {
	binaryPath := getBinaryPath(t)
	path := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), 0o644))

	output, err := exec.Command(binaryPath, "extract", path).CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unsupported")
}

func TestExportCommand_WritesDocxAndHTML(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	recordPath := filepath.Join(dir, "record.json")
	require.NoError(t, writeJSONFile(recordPath, testRecord()))

	for _, kind := range []string{"docx", "html"} {
		output, err := exec.Command(binaryPath, "export", recordPath, "--to", kind, "-o", dir, "--format", "modern").CombinedOutput()
		require.NoError(t, err, string(output))
		assert.Contains(t, string(output), "Jane_Doe_resume."+kind)

		_, err = os.Stat(filepath.Join(dir, "Jane_Doe_resume."+kind))
		assert.NoError(t, err)
	}
}

func TestExportCommand_UnknownKind(t *testing.T) {
	binaryPath := getBinaryPath(t)
	recordPath := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, writeJSONFile(recordPath, testRecord()))

	output, err := exec.Command(binaryPath, "export", recordPath, "--to", "tex").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown export kind")
}

func TestServeCommand_RequiresSessionSecret(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "serve", "--port", "0")
	cmd.Env = append(os.Environ(), "SESSION_SECRET=")
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "SESSION_SECRET")
}
