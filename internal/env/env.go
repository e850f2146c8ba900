package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"

	defaultDownloadsDirname = "Downloads"
)

var (
	DLSORT_CONFIG_PATH string

	DLSORT_LOG_PATH string
)

func init() {
	// https://github.com/charmbracelet/log/issues/35
	os.Setenv("CLICOLOR_FORCE", "1")

	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	DLSORT_CONFIG_PATH = os.Getenv("DLSORT_CONFIG_PATH")
	if DLSORT_CONFIG_PATH == "" {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			configDir = filepath.Join(homeDir(), defaultXDGConfigDirname)
		}
		DLSORT_CONFIG_PATH = filepath.Join(configDir, "dlsort", "config.yaml")
	}

	DLSORT_LOG_PATH = os.Getenv("DLSORT_LOG_PATH")
	if DLSORT_LOG_PATH == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			dataDir = filepath.Join(homeDir(), defaultXDGDataDirname)
		}
		DLSORT_LOG_PATH = filepath.Join(dataDir, "dlsort", "debug.log")
	}
}

// DownloadsDir returns the directory organized when none is configured.
// USERPROFILE wins so that the Windows profile is used even under shells
// that export HOME.
func DownloadsDir() string {
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		return filepath.Join(profile, defaultDownloadsDirname)
	}
	return filepath.Join(homeDir(), defaultDownloadsDirname)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return home
}
