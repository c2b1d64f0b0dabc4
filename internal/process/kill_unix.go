//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid.
// Non-positive pids are ignored: -0 and -1 would target the caller's own
// group or every process.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort: the rod launcher kills the leader as well.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
