package objects

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/klauspost/compress/zlib"
)

// ObjectStore manages loose objects under <repo>/.semigit/objects.
// It holds no mutable state, so a single store may be shared freely.
type ObjectStore struct {
	repoPath         string // Path to repository root
	compressionLevel int
}

// Option configures an ObjectStore.
type Option func(*ObjectStore)

// WithCompressionLevel sets the zlib level used for new objects.
// Out-of-range levels fall back to the default.
func WithCompressionLevel(level int) Option {
	return func(store *ObjectStore) {
		if level >= zlib.HuffmanOnly && level <= zlib.BestCompression {
			store.compressionLevel = level
		}
	}
}

func NewObjectStore(repoPath string, opts ...Option) *ObjectStore {
	store := &ObjectStore{
		repoPath:         repoPath,
		compressionLevel: zlib.DefaultCompression,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// storeRoot is the metadata directory; staging files live here so the final
// rename never crosses a filesystem boundary.
func (store *ObjectStore) storeRoot() string {
	return filepath.Join(store.repoPath, constants.SemiGit)
}

func (store *ObjectStore) objectsDir() string {
	return filepath.Join(store.storeRoot(), constants.Objects)
}

// Store persists an in-memory object. Storing an object that already
// exists is a no-op.
func (store *ObjectStore) Store(object Storable) error {
	content := object.Content()
	hash, err := store.Write(object.Kind(), bytes.NewReader(content), int64(len(content)), true)
	if err != nil {
		return err
	}

	if hash != object.Hash() {
		return fmt.Errorf("hash mismatch: expected %s, got %s", object.Hash(), hash)
	}
	return nil
}
