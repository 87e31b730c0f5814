//go:build windows

package scanner

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}

// Windows has no process groups to signal; Kill is both the graceful and the
// forceful path.
func terminateProcessGroup(cmd *exec.Cmd) { killProcessGroup(cmd) }

func killProcessGroup(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
