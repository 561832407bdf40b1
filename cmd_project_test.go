package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCommand(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "report.pdf")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"project", "--perches", "10", "--name", "Kumari Silva", "--pdf", pdf})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Total plants")
	assert.Contains(t, out.String(), "Rs. 63,000")
	assert.Contains(t, out.String(), "Wrote "+pdf)

	body, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestProjectCommand_InvalidSize(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"project", "--perches", "-1"})
	assert.Error(t, cmd.Execute())
}
