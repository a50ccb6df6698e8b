package objects

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/GitUser-3-2-3/Semi-Git/testutils"
	"github.com/agiledragon/gomonkey/v2"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWrite_RoundTrip stores payloads of assorted sizes and reads them back byte for byte.
func TestWrite_RoundTrip(t *testing.T) {
	random := make([]byte, 300*1024)
	_, err := rand.Read(random)
	require.NoError(t, err)

	payloads := map[string][]byte{
		"empty":      {},
		"one byte":   {0},
		"nul bytes":  []byte("a\x00b\x00c"),
		"text":       []byte("hello world\nHave a nice day"),
		"repetitive": bytes.Repeat([]byte("A"), 1024*1024),
		"random":     random,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			store, _ := setupStore(t)

			hash, err := store.WriteBlob(bytes.NewReader(payload), true)
			require.NoError(t, err)
			assert.Len(t, hash, constants.HashStringLength)

			object, got := readPayload(t, store, hash)
			assert.Equal(t, KindBlob, object.Kind)
			assert.EqualValues(t, len(payload), object.Size)
			assert.True(t, bytes.Equal(payload, got), "payload differs after round trip")
		})
	}
}

// TestWrite_DryRunMatchesPersisted verifies the hash does not depend on persist.
func TestWrite_DryRunMatchesPersisted(t *testing.T) {
	store, repoPath := setupStore(t)
	content := "identical content\n"

	dryHash, err := store.WriteBlob(strings.NewReader(content), false)
	require.NoError(t, err)
	assert.False(t, store.Exists(dryHash), "dry run must not store the object")

	storedHash, err := store.WriteBlob(strings.NewReader(content), true)
	require.NoError(t, err)

	assert.Equal(t, dryHash, storedHash)
	testutils.AssertFileExists(t, testutils.ObjectFilePath(repoPath, storedHash))
}

func TestWrite_DryRunLeavesNoFiles(t *testing.T) {
	store, repoPath := setupStore(t)

	_, err := store.WriteBlob(strings.NewReader("nothing on disk"), false)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(repoPath, constants.SemiGit, constants.Objects))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, stagingFiles(t, repoPath))
}

// TestWrite_ContentSensitivity flips every bit of a small payload and expects a new hash each time.
func TestWrite_ContentSensitivity(t *testing.T) {
	store := NewObjectStore(t.TempDir())
	original := []byte("The quick brown fox")

	seen := make(map[string]struct{})
	originalHash, err := store.WriteBlob(bytes.NewReader(original), false)
	require.NoError(t, err)
	seen[originalHash] = struct{}{}

	for i := range original {
		for bit := range 8 {
			mutated := bytes.Clone(original)
			mutated[i] ^= 1 << bit

			hash, err := store.WriteBlob(bytes.NewReader(mutated), false)
			require.NoError(t, err)

			_, duplicate := seen[hash]
			require.False(t, duplicate, "mutation at byte %d bit %d collided", i, bit)
			seen[hash] = struct{}{}
		}
	}

	// Appending a byte changes the declared size too.
	hash, err := store.WriteBlob(bytes.NewReader(append(bytes.Clone(original), ' ')), false)
	require.NoError(t, err)
	assert.NotContains(t, seen, hash)
}

func TestWrite_KnownHashes(t *testing.T) {
	store := NewObjectStore(t.TempDir())

	tests := map[string]string{
		"hello world":    helloWorldBlobHash,
		"":               emptyBlobHash,
		"test content\n": testContentHash,
	}

	for content, want := range tests {
		hash, err := store.WriteBlob(strings.NewReader(content), false)
		require.NoError(t, err)
		assert.Equal(t, want, hash, "content %q", content)
	}
}

// TestWrite_StoredBytesAreHeaderAndPayload inflates the published file directly.
func TestWrite_StoredBytesAreHeaderAndPayload(t *testing.T) {
	store, repoPath := setupStore(t)

	hash, err := store.WriteBlob(strings.NewReader("hello world"), true)
	require.NoError(t, err)

	file, err := os.Open(testutils.ObjectFilePath(repoPath, hash))
	require.NoError(t, err)
	defer file.Close()

	inflater, err := zlib.NewReader(file)
	require.NoError(t, err)
	defer inflater.Close()

	raw, err := io.ReadAll(inflater)
	require.NoError(t, err)
	assert.Equal(t, "blob 11\x00hello world", string(raw))
}

func TestWrite_Idempotent(t *testing.T) {
	store, repoPath := setupStore(t)

	first, err := store.WriteBlob(strings.NewReader("test\n"), true)
	require.NoError(t, err)

	second, err := store.WriteBlob(strings.NewReader("test\n"), true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	info, err := os.Stat(testutils.ObjectFilePath(repoPath, first))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	assert.Empty(t, stagingFiles(t, repoPath), "second write must clean up its staging file")
}

func TestWrite_PublishedObjectIsReadOnly(t *testing.T) {
	store, repoPath := setupStore(t)

	hash, err := store.WriteBlob(strings.NewReader("read only"), true)
	require.NoError(t, err)

	info, err := os.Stat(testutils.ObjectFilePath(repoPath, hash))
	require.NoError(t, err)
	assert.Equal(t, constants.ObjectPerms, info.Mode().Perm())
}

func TestWrite_CompressionLevelDoesNotChangeHash(t *testing.T) {
	content := bytes.Repeat([]byte("This is repeated content. "), 100)

	fast, _ := setupStore(t, WithCompressionLevel(zlib.BestSpeed))
	best, _ := setupStore(t, WithCompressionLevel(zlib.BestCompression))

	fastHash, err := fast.WriteBlob(bytes.NewReader(content), true)
	require.NoError(t, err)
	bestHash, err := best.WriteBlob(bytes.NewReader(content), true)
	require.NoError(t, err)

	assert.Equal(t, fastHash, bestHash)
}

// TestWrite_Compression verifies stored objects are actually compressed.
func TestWrite_Compression(t *testing.T) {
	store, repoPath := setupStore(t)
	content := bytes.Repeat([]byte("This is repeated content. "), 100)

	hash, err := store.WriteBlob(bytes.NewReader(content), true)
	require.NoError(t, err)

	compressed, err := os.ReadFile(testutils.ObjectFilePath(repoPath, hash))
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(content))
}

func TestWrite_SizeUnknown(t *testing.T) {
	store, repoPath := setupStore(t)

	// MultiReader cannot report its length.
	_, err := store.WriteBlob(io.MultiReader(strings.NewReader("abc")), true)
	assert.ErrorIs(t, err, ErrSizeUnknown)

	_, err = store.Write(KindBlob, strings.NewReader("abc"), -1, true)
	assert.ErrorIs(t, err, ErrSizeUnknown)

	assert.Empty(t, stagingFiles(t, repoPath))
}

func TestWrite_SourceShorterThanDeclared(t *testing.T) {
	store, repoPath := setupStore(t)

	_, err := store.Write(KindBlob, strings.NewReader("abc"), 10, true)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Empty(t, stagingFiles(t, repoPath))
}

func TestWrite_SourceReadError(t *testing.T) {
	store, repoPath := setupStore(t)
	sourceErr := errors.New("disk went away")

	_, err := store.Write(KindBlob, &failingReader{n: 10, err: sourceErr}, 100, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceRead)
	assert.ErrorIs(t, err, sourceErr)
	assert.Empty(t, stagingFiles(t, repoPath), "staging file must be removed")
}

func TestEncodeObject_SinkWriteError(t *testing.T) {
	sinkErr := errors.New("no space left on device")

	_, err := encodeObject(KindBlob, strings.NewReader("payload"), 7, failingWriter{err: sinkErr}, zlib.DefaultCompression)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSinkWrite)
	assert.ErrorIs(t, err, sinkErr)
}

func TestWrite_UnsupportedKind(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.Write(Kind("tag"), strings.NewReader("x"), 1, false)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestWrite_MissingStoreRoot(t *testing.T) {
	store := NewObjectStore(t.TempDir())

	_, err := store.WriteBlob(strings.NewReader("x"), true)
	assert.ErrorIs(t, err, ErrSinkWrite)
}

// TestWrite_RenameFailure verifies a failed publish leaves neither object nor staging file.
func TestWrite_RenameFailure(t *testing.T) {
	store, repoPath := setupStore(t)

	mockError := errors.New("mocked rename failure")
	patches := gomonkey.ApplyFunc(os.Rename, func(_, _ string) error {
		return mockError
	})
	defer patches.Reset()

	_, err := store.WriteBlob(strings.NewReader("hello world"), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSinkWrite)
	assert.ErrorIs(t, err, mockError)

	var objectErr *ObjectError
	require.True(t, errors.As(err, &objectErr))
	assert.Equal(t, StagePublish, objectErr.Stage)
	assert.Equal(t, helloWorldBlobHash, objectErr.Hash)

	testutils.AssertFileNotExists(t, testutils.ObjectFilePath(repoPath, helloWorldBlobHash))
	assert.Empty(t, stagingFiles(t, repoPath))
}

func TestWrite_ShardDirectoryFailure(t *testing.T) {
	store, repoPath := setupStore(t)

	mockError := errors.New("mocked mkdir failure")
	patches := gomonkey.ApplyFunc(os.MkdirAll, func(_ string, _ os.FileMode) error {
		return mockError
	})
	defer patches.Reset()

	_, err := store.WriteBlob(strings.NewReader("hello world"), true)
	assert.ErrorIs(t, err, mockError)
	assert.Empty(t, stagingFiles(t, repoPath))
}

func TestWriteBlobFile(t *testing.T) {
	store, repoPath := setupStore(t)
	content := []byte("test content\n")
	path := testutils.CreateTestFile(t, repoPath, "test.txt", content)

	hash, err := store.WriteBlobFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, testContentHash, hash)

	_, got := readPayload(t, store, hash)
	assert.Equal(t, content, got)
}

func TestWriteBlobFile_NonExistent(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.WriteBlobFile("/nonexistent/file.txt", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceRead)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestWriteBlobFile_Directory(t *testing.T) {
	store, repoPath := setupStore(t)

	_, err := store.WriteBlobFile(repoPath, false)
	assert.ErrorIs(t, err, ErrSizeUnknown)
}

// TestWriteBlob_PartiallyReadFile sizes an *os.File from its current offset.
func TestWriteBlob_PartiallyReadFile(t *testing.T) {
	store, repoPath := setupStore(t)
	path := testutils.CreateTestFile(t, repoPath, "prefixed.txt", []byte("skip:hello world"))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	_, err = file.Seek(int64(len("skip:")), io.SeekStart)
	require.NoError(t, err)

	hash, err := store.WriteBlob(file, false)
	require.NoError(t, err)
	assert.Equal(t, helloWorldBlobHash, hash)
}
