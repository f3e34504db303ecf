package helper

import (
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the directory searched for configuration files
const ConfigDirEnv = "HIRELOOP_CONFIG_DIR"

// GetCfgPath returns the path to the configuration file.
//
// Priority:
// 1. If filename is an absolute path, return it directly.
// 2. $HIRELOOP_CONFIG_DIR/{filename} when the variable is set and the file exists
// 3. Check ./{filename} and ./configs/{filename}
// 4. Otherwise, fallback to /etc/hireloop/{filename}
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}

	if filepath.IsAbs(filename) {
		return filename
	}

	candidates := make([]string, 0, 3)
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		candidates = append(candidates, filepath.Join(dir, filename))
	}
	if wd, err := os.Getwd(); err == nil && wd != "" {
		candidates = append(candidates,
			filepath.Join(wd, filename),
			filepath.Join(wd, "configs", filename))
	}
	for _, candidate := range candidates {
		if found := existingAbs(candidate); found != "" {
			return found
		}
	}

	return filepath.Join("/etc/hireloop", filename)
}

func existingAbs(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return abs
}
