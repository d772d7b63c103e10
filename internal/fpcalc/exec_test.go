package fpcalc

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCommandExecutorReapsChildOnScanError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub")
	}
	// One line just past the scanner's buffer limit but within what the
	// pipe can absorb, so the child exits on its own.
	script := "#!/bin/sh\nhead -c 1049600 /dev/zero | tr '\\0' 'A'\necho\n"
	stub := filepath.Join(t.TempDir(), "bigline")
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	err := commandExecutor{}.Run(context.Background(), stub, nil, func(string) {})
	if err == nil || !strings.Contains(err.Error(), "scan output") {
		t.Fatalf("expected scan error, got %v", err)
	}
}
