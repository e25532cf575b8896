//go:build unix

package ffmpeg

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// terminate asks ffmpeg to finish cleanly; it flushes and closes its outputs
// on SIGTERM. os/exec escalates to SIGKILL once WaitDelay elapses.
func terminate(proc *os.Process) error {
	if proc == nil {
		return os.ErrProcessDone
	}
	if err := unix.Kill(proc.Pid, unix.SIGTERM); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
	return nil
}
