package frontend

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// ScriptName is the file name of the provisioned driver script.
const ScriptName = "compile_guppy.py"

//go:embed scripts/compile_guppy.py
var compileScript []byte

// ProvisionScript writes the driver script into a fresh temporary directory
// under dir (the system default when empty). The returned cleanup removes
// the directory.
func ProvisionScript(dir string) (string, func() error, error) {
	tmp, err := os.MkdirTemp(dir, "guppyc-")
	if err != nil {
		return "", nil, fmt.Errorf("create script directory: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(tmp) }

	path := filepath.Join(tmp, ScriptName)
	if err := os.WriteFile(path, compileScript, 0o600); err != nil {
		_ = cleanup()
		return "", nil, fmt.Errorf("write frontend script: %w", err)
	}
	return path, cleanup, nil
}
