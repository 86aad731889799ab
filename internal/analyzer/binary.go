package analyzer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// resolveBinary validates the target and returns its canonical
// absolute path. A bare name with no path separator is looked up on
// PATH first.
func resolveBinary(target string) (string, error) {
	path := target
	if !strings.ContainsRune(target, os.PathSeparator) && !strings.ContainsRune(target, '/') {
		if found, err := exec.LookPath(target); err == nil {
			path = found
		}
	}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", newError(ErrBinaryNotFound, fmt.Sprintf("binary not found: %s", target), err)
		}
		return "", newError(ErrBinaryNotFound, fmt.Sprintf("cannot access binary: %s", target), err)
	}
	if fi.IsDir() {
		return "", newError(ErrBinaryNotExecutable, fmt.Sprintf("path is a directory: %s", path), nil)
	}
	if !fi.Mode().IsRegular() {
		return "", newError(ErrBinaryNotExecutable, fmt.Sprintf("not a regular file: %s", path), nil)
	}
	if runtime.GOOS != "windows" && fi.Mode().Perm()&0o111 == 0 {
		return "", newError(ErrBinaryNotExecutable, fmt.Sprintf("file is not executable: %s", path), nil)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", newError(ErrBinaryNotFound, fmt.Sprintf("cannot resolve path: %s", path), err)
	}
	return abs, nil
}
