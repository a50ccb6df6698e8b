package objects

import (
	"bytes"
	"encoding/hex"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/GitUser-3-2-3/Semi-Git/testutils"
	"github.com/stretchr/testify/require"
)

// Well-known object hashes, identical to what git produces for the same content.
const (
	helloWorldBlobHash = "95d09f2b10159347eece71399a7e2e907ea3df4f" // "hello world"
	emptyBlobHash      = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	emptyTreeHash      = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
	testContentHash    = "d670460b4b4aece5915caf5c68d12f560a9fe3e4" // "test content\n"
)

// setupStore creates a repository skeleton and returns a store rooted at it.
func setupStore(t *testing.T, opts ...Option) (*ObjectStore, string) {
	t.Helper()

	repoPath := testutils.SetupTestRepoWithObjectsDir(t)
	return NewObjectStore(repoPath, opts...), repoPath
}

// readPayload opens hash and streams its payload fully.
func readPayload(t *testing.T, store *ObjectStore, hash string) (*Object, []byte) {
	t.Helper()

	object, err := store.Read(hash)
	require.NoError(t, err)
	defer object.Close()

	var payload bytes.Buffer
	_, err = object.CopyTo(&payload)
	require.NoError(t, err)

	return object, payload.Bytes()
}

// stagingFiles lists leftover staging files in the store root.
func stagingFiles(t *testing.T, repoPath string) []string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(repoPath, constants.SemiGit, constants.StagingPattern))
	require.NoError(t, err)
	return matches
}

// failingReader returns err after yielding n bytes of filler.
type failingReader struct {
	n   int
	err error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n == 0 {
		return 0, r.err
	}
	count := min(len(p), r.n)
	for i := range count {
		p[i] = 'x'
	}
	r.n -= count
	return count, nil
}

// failingWriter rejects every write.
type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

var _ io.Writer = failingWriter{}

// createTreeEntry creates tree entry and fails test on error.
func createTreeEntry(t *testing.T, mode FileMode, name, hash string) TreeEntry {
	t.Helper()

	entry, err := NewTreeEntry(mode, name, hash)
	require.NoError(t, err)
	return *entry
}

// createTestAuthor returns test author with UTC timezone.
func createTestAuthor(name, email string) Author {
	return Author{
		Name:      name,
		Email:     email,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

// mustDecodeHex converts a hex hash to its raw bytes.
func mustDecodeHex(t *testing.T, hash string) []byte {
	t.Helper()

	raw, err := hex.DecodeString(hash)
	require.NoError(t, err)
	return raw
}
