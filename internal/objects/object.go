package objects

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// Storable is an in-memory object that can be encoded into the store.
// Blobs, trees and commits built by this package implement it.
type Storable interface {
	// Kind returns the header kind of the object
	Kind() Kind

	// Hash returns the SHA-1 of "<kind> <size>\0<content>"
	Hash() string

	// Content returns the payload without header
	Content() []byte
}

// Object is a stored object opened for reading. Its payload is streamed and
// never yields more than Size bytes, whatever the compressed file contains.
type Object struct {
	Kind Kind
	Size int64
	Hash string

	payload *payloadReader
}

// Read reads from the size-capped payload. Reaching the end of the
// decompressed stream before Size bytes returns ErrSizeMismatch.
func (o *Object) Read(p []byte) (int, error) {
	return o.payload.Read(p)
}

// Close releases the decompressor and the underlying file.
func (o *Object) Close() error {
	return o.payload.Close()
}

// CopyTo streams the whole payload to w and verifies the byte count.
func (o *Object) CopyTo(w io.Writer) (int64, error) {
	n, err := io.Copy(w, o.payload)
	if err != nil {
		return n, err
	}
	if n != o.Size {
		return n, newObjectError(o.Hash, StagePayload,
			fmt.Errorf("%w: expected %d bytes, read %d", ErrSizeMismatch, o.Size, n))
	}
	return n, nil
}

// payloadReader caps reads at the declared size and classifies failures of
// the decompression stream underneath it. Once the cap is reached it reads
// one more time so the inflater reaches the end of the stream and checks the
// adler32 trailer; data past the declared size is never returned.
type payloadReader struct {
	hash      string
	size      int64
	remaining int64
	reader    io.Reader
	closers   []io.Closer
	verified  bool
}

func (r *payloadReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		if err := r.verifyEnd(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}

	n, err := r.reader.Read(p)
	r.remaining -= int64(n)

	switch {
	case err == nil:
		if r.remaining == 0 {
			return n, r.verifyEnd()
		}
		return n, nil
	case errors.Is(err, io.EOF):
		if r.remaining > 0 {
			return n, newObjectError(r.hash, StagePayload,
				fmt.Errorf("%w: expected %d bytes, stream ended after %d", ErrSizeMismatch, r.size, r.size-r.remaining))
		}
		// The inflater only reports EOF after a matching checksum
		r.verified = true
		return n, io.EOF
	default:
		return n, newObjectError(r.hash, StageInflate, fmt.Errorf("%w: %w", ErrCorruptObject, err))
	}
}

// verifyEnd runs the trailing read at most once. A byte past the declared
// size is dropped; only a decompression error is reported.
func (r *payloadReader) verifyEnd() error {
	if r.verified {
		return nil
	}
	r.verified = true

	var trailing [1]byte
	_, err := r.reader.Read(trailing[:])
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return newObjectError(r.hash, StageInflate, fmt.Errorf("%w: %w", ErrCorruptObject, err))
}

func (r *payloadReader) Close() error {
	var err error
	for _, closer := range r.closers {
		err = multierr.Append(err, closer.Close())
	}
	r.closers = nil
	return err
}
