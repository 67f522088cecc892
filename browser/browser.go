// Package browser opens files in the user's default browser.
package browser

import (
	"os/exec"
	"runtime"

	"github.com/tsawler/pagelens/logging"
)

// openCommand returns the platform launcher for path.
var openCommand = func(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

// Open launches path in the default browser, fire and forget. Launch
// failures are logged, never fatal: the artifact on disk is the real
// deliverable.
func Open(path string, log logging.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	cmd := openCommand(path)
	if err := cmd.Start(); err != nil {
		log.Warnf("could not open %s in browser: %v", path, err)
		return
	}
	log.Debugf("opened %s", path)
	// Reap the launcher without blocking the caller.
	go func() { _ = cmd.Wait() }()
}
