package objects

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
	"github.com/klauspost/compress/zlib"
)

// Read opens the object named by hash and parses its header.
// The payload is left unread; the caller must Close the returned Object.
func (store *ObjectStore) Read(hash string) (*Object, error) {
	hash, err := ValidateHash(hash)
	if err != nil {
		return nil, err
	}

	objectFile := ObjectPath(store.objectsDir(), hash)
	file, err := os.Open(objectFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, newObjectError(hash, StageOpen, ErrNotFound)
	}
	if err != nil {
		return nil, newObjectError(hash, StageOpen, err)
	}

	// Close the file on every path that does not hand it to the Object.
	var opened bool
	defer func() {
		if !opened {
			file.Close()
		}
	}()

	inflater, err := zlib.NewReader(bufio.NewReader(file))
	if err != nil {
		return nil, newObjectError(hash, StageInflate, fmt.Errorf("%w: %w", ErrCorruptObject, err))
	}

	decompressed := bufio.NewReader(inflater)
	header, err := scanHeader(decompressed)
	if err != nil {
		inflater.Close()
		return nil, newObjectError(hash, StageHeader, err)
	}

	kind, size, err := ParseHeader(header)
	if err != nil {
		inflater.Close()
		return nil, newObjectError(hash, StageHeader, err)
	}

	slog.Debug("Opened object",
		"hash", hash,
		"kind", kind,
		"size", size)

	opened = true
	return &Object{
		Kind: kind,
		Size: size,
		Hash: hash,
		payload: &payloadReader{
			hash:      hash,
			size:      size,
			remaining: size,
			reader:    decompressed,
			closers:   []io.Closer{inflater, file},
		},
	}, nil
}

// scanHeader reads up to and including the first NUL byte. The buffer grows
// as needed but never past MaxHeaderLength.
func scanHeader(r io.ByteReader) ([]byte, error) {
	header := make([]byte, 0, 32)
	for len(header) < constants.MaxHeaderLength {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: stream ended before header terminator", ErrCorruptObject)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptObject, err)
		}

		header = append(header, b)
		if b == constants.NullByte {
			if !utf8.Valid(header) {
				return nil, fmt.Errorf("%w: header is not valid UTF-8", ErrCorruptObject)
			}
			return header, nil
		}
	}
	return nil, fmt.Errorf("%w: no header terminator in first %d bytes", ErrCorruptObject, constants.MaxHeaderLength)
}

// Exists checks if an object exists in storage.
func (store *ObjectStore) Exists(hash string) bool {
	hash, err := ValidateHash(hash)
	if err != nil {
		return false
	}
	_, err = os.Stat(ObjectPath(store.objectsDir(), hash))
	return err == nil
}
