package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const appName = "typr"

// DictExtensions are the file extensions a dictionary may have.
var DictExtensions = []string{".bin", ".txt", ".combined"}

// PathResolver finds the config directory and dictionary files relative to
// the running binary.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

func NewPathResolver() *PathResolver {
	execDir, err := GetExecutableDir()
	if err != nil {
		log.Warnf("Could not determine executable directory: %v", err)
		execDir = "."
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     configDirFor(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", execDir, pr.configDir)
	return pr
}

// configDirFor returns the platform config directory for typr.
func configDirFor(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appName)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appName)
	}
	return filepath.Join(homeDir, ".config", appName)
}

func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}

// DictCandidates lists where a dictionary named path is looked for, in order:
// the path itself when absolute, next to the executable, in the working
// directory, then in the config directory's data folder.
func (pr *PathResolver) DictCandidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	candidates := []string{filepath.Join(pr.executableDir, path)}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, path))
	}
	candidates = append(candidates, filepath.Join(pr.configDir, "data", filepath.Base(path)))
	return candidates
}

// ResolveDictPath returns the first candidate that is a regular file with a
// dictionary extension. When none is found the first candidate is returned
// so that the caller reports a useful path.
func (pr *PathResolver) ResolveDictPath(path string) (string, bool) {
	candidates := pr.DictCandidates(path)
	for _, candidate := range candidates {
		if isDictFile(candidate) {
			log.Debugf("Found dictionary: %s", candidate)
			return candidate, true
		}
		log.Debugf("Dictionary candidate not valid: %s", candidate)
	}
	return candidates[0], false
}

func isDictFile(path string) bool {
	stat, err := os.Stat(path)
	if err != nil || stat.IsDir() {
		return false
	}
	ext := filepath.Ext(path)
	for _, known := range DictExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
