package testutils

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/klauspost/compress/zlib"
)

// RandomString generates a random hex string of n bytes
func RandomString(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// RandomHash generates a random 40-character SHA-1 hash
func RandomHash() string {
	return RandomString(constants.HashByteLength)
}

// SetupTestRepoWithObjectsDir creates a temporary directory with .semigit/objects structure.
// This is useful for tests that need the object store but not full initialization.
func SetupTestRepoWithObjectsDir(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()
	objectsDir := filepath.Join(repoPath, constants.SemiGit, constants.Objects)

	if err := os.MkdirAll(objectsDir, constants.DirPerms); err != nil {
		t.Fatalf("Failed to create %s/%s: %v", constants.SemiGit, constants.Objects, err)
	}

	return repoPath
}

// SetupTestRepoWithInit creates a fully initialized .semigit repository structure.
// This includes objects/, refs/heads/, refs/tags/, and HEAD file.
func SetupTestRepoWithInit(t *testing.T) string {
	t.Helper()

	repoPath := t.TempDir()
	metaDir := filepath.Join(repoPath, constants.SemiGit)

	// Create directory structure
	dirs := []string{
		filepath.Join(metaDir, constants.Objects),
		filepath.Join(metaDir, constants.Refs, constants.Heads),
		filepath.Join(metaDir, constants.Refs, constants.Tags),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, constants.DirPerms); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	// Create HEAD file
	headPath := filepath.Join(metaDir, constants.Head)
	headContent := []byte(constants.DefaultRefPrefix + constants.DefaultBranch + "\n")
	if err := os.WriteFile(headPath, headContent, constants.FilePerms); err != nil {
		t.Fatalf("Failed to create %s file: %v", constants.Head, err)
	}

	return repoPath
}

// CreateTestFile creates a file with given content in the specified directory.
// Returns the full path to the created file.
func CreateTestFile(t *testing.T, dir, filename string, content []byte) string {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, content, constants.FilePerms); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}

	return filePath
}

// AssertFileExists checks that a file exists at the given path.
// Fails the test if the file doesn't exist.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected file to exist at %s", path)
	}
}

// AssertFileNotExists checks that a file does NOT exist at the given path.
// Fails the test if the file exists.
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to NOT exist at %s", path)
	}
}

// AssertDirExists checks that a directory exists at the given path.
// Fails the test if the directory doesn't exist.
func AssertDirExists(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected directory to exist at %s", path)
		return
	}
	if err != nil {
		t.Errorf("Failed to stat directory %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory, but it's a file", path)
	}
}

// AssertRepositoryStructure validates complete .semigit directory structure.
// Verifies objects/, refs/heads/, refs/tags/ exist and HEAD contains correct branch reference.
// Fatal error if any validation fails.
func AssertRepositoryStructure(t *testing.T, repoPath string) {
	t.Helper()

	metaDir := filepath.Join(repoPath, constants.SemiGit)
	AssertDirExists(t, metaDir)

	expectedDirs := []string{
		constants.Objects,
		constants.Refs,
		filepath.Join(constants.Refs, constants.Heads),
		filepath.Join(constants.Refs, constants.Tags),
	}
	for _, dir := range expectedDirs {
		AssertDirExists(t, filepath.Join(metaDir, dir))
	}

	headPath := filepath.Join(metaDir, constants.Head)
	AssertFileExists(t, headPath)

	content, err := os.ReadFile(headPath)
	if err != nil {
		t.Fatalf("Failed to read %s file: %v", constants.Head, err)
	}

	expectedContent := constants.DefaultRefPrefix + constants.DefaultBranch + "\n"
	if string(content) != expectedContent {
		t.Errorf("%s content = %q, want %q", constants.Head, content, expectedContent)
	}

	AssertFileExists(t, filepath.Join(metaDir, constants.ConfigFile))
}

// ObjectFilePath returns where a loose object named hash lives under repoPath.
func ObjectFilePath(repoPath, hash string) string {
	return filepath.Join(repoPath, constants.SemiGit, constants.Objects,
		hash[:constants.HashDirPrefixLength], hash[constants.HashDirPrefixLength:])
}

// WriteObjectFile places data at hash's object path as-is, replacing any
// existing (read-only) object.
func WriteObjectFile(t *testing.T, repoPath, hash string, data []byte) {
	t.Helper()

	path := ObjectFilePath(repoPath, hash)
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerms); err != nil {
		t.Fatalf("Failed to create object directory: %v", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Failed to remove object %s: %v", hash, err)
	}
	if err := os.WriteFile(path, data, constants.FilePerms); err != nil {
		t.Fatalf("Failed to write object %s: %v", hash, err)
	}
}

// WriteRawObject zlib-compresses body verbatim and stores it under hash,
// so tests can craft objects whose header, size or hash are inconsistent.
func WriteRawObject(t *testing.T, repoPath, hash string, body []byte) {
	t.Helper()

	var compressed bytes.Buffer
	writer := zlib.NewWriter(&compressed)
	if _, err := writer.Write(body); err != nil {
		t.Fatalf("Failed to compress object body: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to finish compressed object: %v", err)
	}

	WriteObjectFile(t, repoPath, hash, compressed.Bytes())
}

// CorruptObjectFile rewrites the stored file of hash with the bytes returned
// by corrupt, which receives a copy of the current compressed contents.
func CorruptObjectFile(t *testing.T, repoPath, hash string, corrupt func(data []byte) []byte) {
	t.Helper()

	data, err := os.ReadFile(ObjectFilePath(repoPath, hash))
	if err != nil {
		t.Fatalf("Failed to read object %s: %v", hash, err)
	}

	WriteObjectFile(t, repoPath, hash, corrupt(data))
}
