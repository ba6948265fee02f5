package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args against a temporary config
// directory and returns the captured output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--config-dir", t.TempDir()))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommandsAreRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"sync", "rebuild", "ask", "chat", "serve", "docs", "status", "version",
	} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "1.2.3"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "deptchat version 1.2.3")
}

func TestSetVersionIgnoresEmpty(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()

	SetVersion("")
	assert.Equal(t, originalVersion, version)

	SetVersion("9.9.9")
	assert.Equal(t, "9.9.9", version)
}

func TestStatusCmd_FreshConfigDir(t *testing.T) {
	out, err := execute(t, "status")

	require.NoError(t, err)
	assert.Contains(t, out, "not built")
	assert.Contains(t, out, "Syncs:     none recorded")
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, err := execute(t, "ask")

	require.Error(t, err)
}

func TestSyncCmd_FailsWithoutRemoteConfig(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")

	_, err := execute(t, "sync")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestDocsListCmd_FailsWithoutRemoteConfig(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")

	_, err := execute(t, "docs", "list")

	require.Error(t, err)
}

func TestRebuildCmd_Use(t *testing.T) {
	assert.Equal(t, "rebuild", rebuildCmd.Use)
	assert.Contains(t, rebuildCmd.Long, "atomically")
}

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
}
