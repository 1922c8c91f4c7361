package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// TransportForScript picks how to launch the tool server named on the
// command line. The runtime is chosen by file extension:
//
//	.py       python3 (python on Windows)
//	.js       node
//	.go       go run
//	http(s):// streamable HTTP endpoint
//
// Any other regular file with an executable bit is run directly.
func TransportForScript(path string) (TransportConfig, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return TransportConfig{URL: path}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return TransportConfig{}, fmt.Errorf("server script %s: %w", path, err)
	}
	if info.IsDir() {
		return TransportConfig{}, fmt.Errorf("server script %s is a directory", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return TransportConfig{Command: pythonBinary(), Args: []string{path}}, nil
	case ".js", ".mjs", ".cjs":
		return TransportConfig{Command: "node", Args: []string{path}}, nil
	case ".go":
		return TransportConfig{Command: "go", Args: []string{"run", path}}, nil
	}
	if info.Mode()&0o111 != 0 {
		return TransportConfig{Command: path}, nil
	}
	return TransportConfig{}, fmt.Errorf("server script %s must be a .py, .js or .go file, an executable, or an http(s) URL", path)
}

func pythonBinary() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}
