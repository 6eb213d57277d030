package util

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetProjectRootDir returns the path as string to the project_root.
// It uses PROJECT_ROOT_DIR if set, otherwise the location of this source file.
func GetProjectRootDir() string {
	if val, ok := os.LookupEnv("PROJECT_ROOT_DIR"); ok {
		return val
	}

	_, b, _, _ := runtime.Caller(0) //nolint:dogsled

	return filepath.Join(filepath.Dir(b), "../..")
}
