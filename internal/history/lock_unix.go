//go:build !windows

package history

import (
	"os"
	"syscall"
)

// lockFile takes an exclusive advisory lock, blocking until it is free.
// The teacher repo only shipped a Windows stub for this; flock is the
// straightforward POSIX equivalent and the corpus's indexer/sorter.go
// already takes the same "lock for the duration of the write" approach
// for its own on-disk artifacts.
func lockFile(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_EX)
}

func unlockFile(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
}
