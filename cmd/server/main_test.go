package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdFlagDefaults(t *testing.T) {
	t.Setenv("DOTRI_CONFIG", "/etc/dotri/server.yaml")

	cmd := newRootCmd()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "/etc/dotri/server.yaml", configFlag.DefValue)

	envFlag := cmd.PersistentFlags().Lookup("env-file")
	require.NotNil(t, envFlag)
	assert.Equal(t, ".env", envFlag.DefValue)
}

func TestRootCmdRejectsBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path, "--env-file", filepath.Join(t.TempDir(), "missing.env")})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRootCmdLoadsEnvFile(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("DOTRI_SAVE_DEBOUNCE") })

	envFile := filepath.Join(t.TempDir(), "server.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DOTRI_SAVE_DEBOUNCE=soon\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", "", "--env-file", envFile})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOTRI_SAVE_DEBOUNCE")
}

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
