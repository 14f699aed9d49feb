package launch

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// lookPath resolves a bare name through PATH and checks that an explicit path
// names an executable regular file.
func lookPath(file string) (string, error) {
	if !strings.ContainsRune(file, '/') {
		return exec.LookPath(file)
	}

	fi, err := os.Stat(file)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%w: is a directory", ErrNotExecutable)
	}
	if runtime.GOOS != "windows" && fi.Mode().Perm()&0o111 == 0 {
		return "", fmt.Errorf("%w: mode %s", ErrNotExecutable, fi.Mode())
	}
	return file, nil
}
