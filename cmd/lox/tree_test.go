package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLoxFile writes src to a temp .lox file and returns its path.
func writeLoxFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.lox")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunCmdExitCodesAreZeroOrOne(t *testing.T) {
	cmd := newRunCmd()

	lastExitCode = -1
	require.NoError(t, cmd.RunE(cmd, []string{writeLoxFile(t, `print "ok";`)}))
	assert.Equal(t, 0, lastExitCode, "successful run must exit 0")

	lastExitCode = -1
	require.NoError(t, cmd.RunE(cmd, []string{writeLoxFile(t, `print ;`)}))
	assert.Equal(t, 1, lastExitCode, "a static error must exit 1, not 65")

	lastExitCode = -1
	require.NoError(t, cmd.RunE(cmd, []string{writeLoxFile(t, `print clock() + "x";`)}))
	assert.Equal(t, 1, lastExitCode, "a runtime error must exit 1, not 70")
}
