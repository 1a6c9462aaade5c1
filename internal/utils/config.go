package utils

import (
	"os"
	"path/filepath"
)

// GetDataDir returns ~/.edupath, or a directory under the system temp dir
// when no home directory is available.
func GetDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "edupath")
	}
	return filepath.Join(home, ".edupath")
}

// GetLogPath returns the default log file inside the data directory.
func GetLogPath() string {
	return filepath.Join(GetDataDir(), "edupath.log")
}
