//go:build !unix

package ffmpeg

import "os"

func terminate(proc *os.Process) error {
	if proc == nil {
		return os.ErrProcessDone
	}
	return proc.Kill()
}
