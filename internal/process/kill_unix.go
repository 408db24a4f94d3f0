//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the whole process group of pid, which
// takes Chrome's renderer and GPU children down with the browser.
func KillProcessGroup(pid int) {
	// Best effort; the launcher's own Kill runs right after.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
