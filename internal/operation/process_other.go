//go:build !unix

package operation

import "os/exec"

func configureProcess(cmd *exec.Cmd) {}
