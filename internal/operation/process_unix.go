//go:build unix

package operation

import (
	"os/exec"
	"syscall"
)

// configureProcess runs the shell in its own process group and interrupts
// the whole group on cancel, so pipelines stop together.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGINT)
	}
}
