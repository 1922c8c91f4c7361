package mcp

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), mode))
	return path
}

func TestTransportForScript_ByExtension(t *testing.T) {
	py := touch(t, "server.py", 0o644)
	cfg, err := TransportForScript(py)
	require.NoError(t, err)
	if runtime.GOOS == "windows" {
		assert.Equal(t, "python", cfg.Command)
	} else {
		assert.Equal(t, "python3", cfg.Command)
	}
	assert.Equal(t, []string{py}, cfg.Args)

	js := touch(t, "server.js", 0o644)
	cfg, err = TransportForScript(js)
	require.NoError(t, err)
	assert.Equal(t, "node", cfg.Command)

	gofile := touch(t, "main.go", 0o644)
	cfg, err = TransportForScript(gofile)
	require.NoError(t, err)
	assert.Equal(t, "go", cfg.Command)
	assert.Equal(t, []string{"run", gofile}, cfg.Args)
}

func TestTransportForScript_Executable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}
	bin := touch(t, "mcp-server", 0o755)
	cfg, err := TransportForScript(bin)
	require.NoError(t, err)
	assert.Equal(t, bin, cfg.Command)
	assert.Empty(t, cfg.Args)
	assert.True(t, cfg.IsStdio())
}

func TestTransportForScript_URL(t *testing.T) {
	cfg, err := TransportForScript("http://localhost:8080/mcp")
	require.NoError(t, err)
	assert.True(t, cfg.IsHTTP())
	assert.False(t, cfg.IsStdio())
}

func TestTransportForScript_Rejects(t *testing.T) {
	_, err := TransportForScript(filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)

	_, err = TransportForScript(t.TempDir())
	assert.Error(t, err)

	if runtime.GOOS != "windows" {
		_, err = TransportForScript(touch(t, "notes.txt", 0o644))
		assert.Error(t, err)
	}
}
