package objects

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/klauspost/compress/zlib"
)

// Write encodes size bytes from source as an object of the given kind and
// returns its hex hash. With persist false nothing touches the disk.
// With persist true the object is staged in the store root and renamed into
// objects/ only once fully written, so readers never see a partial object.
func (store *ObjectStore) Write(kind Kind, source io.Reader, size int64, persist bool) (string, error) {
	if !kind.IsValid() {
		return "", newObjectError("", StageEncode, &UnsupportedKindError{Name: string(kind)})
	}
	if size < 0 {
		return "", newObjectError("", StageEncode, ErrSizeUnknown)
	}

	if !persist {
		return encodeObject(kind, source, size, io.Discard, store.compressionLevel)
	}
	return store.writeAndPublish(kind, source, size)
}

// WriteBlobFile hashes a file as a blob, taking the size from its metadata.
func (store *ObjectStore) WriteBlobFile(path string, persist bool) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w: %w", path, ErrSourceRead, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("failed to read file %s: %w: not a regular file", path, ErrSizeUnknown)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w: %w", path, ErrSourceRead, err)
	}
	defer file.Close()

	return store.Write(KindBlob, file, info.Size(), persist)
}

// WriteBlob hashes a reader as a blob. The reader must be able to report its
// remaining length (bytes.Reader, strings.Reader, a regular *os.File...).
func (store *ObjectStore) WriteBlob(source io.Reader, persist bool) (string, error) {
	size, err := sourceSize(source)
	if err != nil {
		return "", newObjectError("", StageEncode, err)
	}
	return store.Write(KindBlob, source, size, persist)
}

// HashContent computes the hash an in-memory payload would be stored under.
func HashContent(kind Kind, content []byte) (string, error) {
	return encodeObject(kind, bytes.NewReader(content), int64(len(content)), io.Discard, zlib.NoCompression)
}

// encodeObject streams header and payload into a hasher and a compressor in
// lockstep. The hash covers the uncompressed bytes only.
func encodeObject(kind Kind, source io.Reader, size int64, sink io.Writer, level int) (string, error) {
	hasher := sha1.New()
	compressor, err := zlib.NewWriterLevel(&sinkWriter{writer: sink}, level)
	if err != nil {
		return "", newObjectError("", StageEncode, err)
	}
	stream := io.MultiWriter(hasher, compressor)

	if _, err := stream.Write(EncodeHeader(kind, size)); err != nil {
		return "", newObjectError("", StageEncode, err)
	}

	copied, err := io.CopyN(stream, &sourceReader{reader: source}, size)
	if errors.Is(err, io.EOF) {
		return "", newObjectError("", StageEncode,
			fmt.Errorf("%w: source ended after %d of %d bytes", ErrSizeMismatch, copied, size))
	}
	if err != nil {
		return "", newObjectError("", StageEncode, err)
	}

	// Close flushes the deflate trailer and adler32 checksum.
	if err := compressor.Close(); err != nil {
		return "", newObjectError("", StageEncode, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (store *ObjectStore) writeAndPublish(kind Kind, source io.Reader, size int64) (string, error) {
	staging, err := os.CreateTemp(store.storeRoot(), constants.StagingPattern)
	if err != nil {
		return "", newObjectError("", StageEncode, fmt.Errorf("%w: failed to create staging file: %w", ErrSinkWrite, err))
	}

	// Track whether the staging file was renamed into place.
	// Any other outcome removes it.
	var published bool
	defer func() {
		if !published {
			discardStaging(staging)
		}
	}()

	hash, err := encodeObject(kind, source, size, staging, store.compressionLevel)
	if err != nil {
		return "", err
	}
	if err := staging.Sync(); err != nil {
		return "", newObjectError(hash, StageEncode, fmt.Errorf("%w: %w", ErrSinkWrite, err))
	}
	if err := staging.Close(); err != nil {
		return "", newObjectError(hash, StageEncode, fmt.Errorf("%w: %w", ErrSinkWrite, err))
	}

	objectFile := ObjectPath(store.objectsDir(), hash)

	// Same hash means same bytes, so an existing object is already correct.
	if _, err := os.Stat(objectFile); err == nil {
		slog.Debug("Object with this hash already exists",
			"hash", hash)
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(objectFile), constants.DirPerms); err != nil {
		return "", newObjectError(hash, StagePublish, fmt.Errorf("%w: failed to create object directory: %w", ErrSinkWrite, err))
	}
	if err := os.Chmod(staging.Name(), constants.ObjectPerms); err != nil {
		return "", newObjectError(hash, StagePublish, fmt.Errorf("%w: %w", ErrSinkWrite, err))
	}
	if err := os.Rename(staging.Name(), objectFile); err != nil {
		return "", newObjectError(hash, StagePublish, fmt.Errorf("%w: failed to move object into place: %w", ErrSinkWrite, err))
	}
	published = true

	slog.Debug("Stored object",
		"hash", hash,
		"kind", kind,
		"size", size)

	return hash, nil
}

// discardStaging removes an unpublished staging file.
func discardStaging(staging *os.File) {
	// Close may already have happened; the error is irrelevant either way.
	_ = staging.Close()

	if err := os.Remove(staging.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to remove staging file",
			"path", staging.Name(),
			"error", err)
	}
}

// sourceSize reports how many bytes remain in source, if it can tell.
func sourceSize(source io.Reader) (int64, error) {
	switch src := source.(type) {
	case interface{ Len() int }:
		return int64(src.Len()), nil
	case interface{ Stat() (fs.FileInfo, error) }:
		info, err := src.Stat()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrSourceRead, err)
		}
		if !info.Mode().IsRegular() {
			return 0, ErrSizeUnknown
		}
		size := info.Size()
		if seeker, ok := source.(io.Seeker); ok {
			offset, err := seeker.Seek(0, io.SeekCurrent)
			if err != nil {
				return 0, fmt.Errorf("%w: %w", ErrSourceRead, err)
			}
			size -= offset
		}
		return max(size, 0), nil
	default:
		return 0, ErrSizeUnknown
	}
}

// sourceReader tags read failures of the content being stored.
type sourceReader struct {
	reader io.Reader
}

func (r *sourceReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	return n, err
}

// sinkWriter tags write failures of the compressed output.
type sinkWriter struct {
	writer io.Writer
}

func (w *sinkWriter) Write(p []byte) (int, error) {
	n, err := w.writer.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	return n, nil
}
