package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cernml/geoff/internal/cli"
)

func TestRun_Version(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := run(&out, []string{"--version"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "geoff ")
}

func TestRun_InvalidFlag(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := run(&out, []string{"--frobnicate"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_InconsistentSelection(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := run(&out, []string{"--log-file", "-", "-m", "LEIR", "-u", "SPS.USER.SFTPRO1"})

	require.Error(t, err)
	assert.NotErrorAs(t, err, new(*cli.ExitError))
}

func TestRun_AbortedImportIsAnError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.hcl")

	err := run(&out, []string{"--log-file", "-", "--no-builtins", missing})

	require.Error(t, err)
	assert.ErrorContains(t, err, "import phase aborted")
}

func TestRun_KeepGoingToleratesFailedImport(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.hcl")

	err := run(&out, []string{"--log-file", "-", "--no-builtins", "-k", missing})

	require.NoError(t, err)
}

func TestRun_ImportsForeignPlugin(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	manifest := filepath.Join(dir, "blowup.hcl")
	content := `
problem "my_blowup" {
  machine = "SPS"
}
`
	require.NoError(t, os.WriteFile(manifest, []byte(content), 0o644))
	var out bytes.Buffer

	// Act
	err := run(&out, []string{
		"--log-file", "-",
		"--no-builtins",
		"-m", "SPS",
		manifest,
	})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "my_blowup")
}
