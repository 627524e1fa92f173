package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least
// requiredBytes available to the calling user.
func CheckFreeSpace(name, path string, requiredBytes int64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	available := int64(stat.Bavail) * int64(stat.Bsize)
	if available < requiredBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s available, need %s", formatBytes(available), formatBytes(requiredBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s available", formatBytes(available))}
}

// CheckFFmpeg verifies the encoder binary resolves on PATH.
func CheckFFmpeg(_ context.Context, binary string) Result {
	const name = "FFmpeg"
	path, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found (required for encoding)", binary)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
