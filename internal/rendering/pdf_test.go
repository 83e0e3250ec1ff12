package rendering

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-refiner/internal/types"
)

func TestChromePrinter_PrintsPDF(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping headless Chrome test in short mode")
	}
	if !ChromeAvailable() {
		t.Skip("Chrome is not installed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	printer := &ChromePrinter{Timeout: 45 * time.Second}
	pdf, err := RenderPDF(ctx, BuildLayout(fullRecord(), profile(t, types.FormatClassic)), printer)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
