package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
)

// defaultConfig is written on init; the CLI reads it through viper.
const defaultConfig = `core:
  compression: -1
log:
  level: warn
`

// InitRepository creates the .semigit skeleton at path: objects/, refs/heads/,
// refs/tags/, a HEAD pointing at the default branch and a config file.
func InitRepository(path string) error {
	// Resolves and adds OS specific separator
	metaDir := filepath.Join(path, constants.SemiGit)

	if err := checkRepositoryDoesNotExist(metaDir); err != nil {
		return err
	}

	// Track if initialization of directories and files was successful.
	// On any failure the deferred cleanup removes the partial repository.
	var initSuccess bool
	defer func() {
		if !initSuccess {
			cleanupRepository(metaDir)
		}
	}()

	directories := []string{
		metaDir,
		filepath.Join(metaDir, constants.Objects),
		filepath.Join(metaDir, constants.Refs),
		filepath.Join(metaDir, constants.Refs, constants.Heads),
		filepath.Join(metaDir, constants.Refs, constants.Tags),
	}

	for _, directory := range directories {
		if err := os.MkdirAll(directory, constants.DirPerms); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", directory, err)
		}
	}

	headFile := filepath.Join(metaDir, constants.Head)
	headContent := constants.DefaultRefPrefix + constants.DefaultBranch + "\n"
	if err := os.WriteFile(headFile, []byte(headContent), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to create %s file: %w", constants.Head, err)
	}

	configFile := filepath.Join(metaDir, constants.ConfigFile)
	if err := os.WriteFile(configFile, []byte(defaultConfig), constants.FilePerms); err != nil {
		return fmt.Errorf("failed to create %s file: %w", constants.ConfigFile, err)
	}

	initSuccess = true
	return nil
}

func checkRepositoryDoesNotExist(path string) error {
	_, err := os.Stat(path)

	// If path doesn't exist there is no error
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to check repository path: %w", err)
	}

	return fmt.Errorf("repository already exists at %s", path)
}

// Removes the entire .semigit directory if it exists
func cleanupRepository(metaDir string) {
	if _, err := os.Stat(metaDir); err == nil {
		slog.Debug("Cleaning up partial repository initialization",
			"path", metaDir)

		if err := os.RemoveAll(metaDir); err != nil {
			slog.Warn("Failed to cleanup repository directory",
				"path", metaDir,
				"error", err)
		} else {
			slog.Debug("Successfully cleaned up repository directory",
				"path", metaDir)
		}
	}
}

// FindRepoRoot locates the directory holding .semigit by walking up from start.
func FindRepoRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		metaDir := filepath.Join(dir, constants.SemiGit)
		if info, err := os.Stat(metaDir); err == nil && info.IsDir() {
			return dir, nil
		}

		// Dir returns all but the last element of path
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding .semigit
			return "", fmt.Errorf("%s directory not found", constants.SemiGit)
		}
		dir = parent
	}
}
