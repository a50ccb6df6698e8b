package objects

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the object store. Callers match them with errors.Is.
var (
	// ErrInvalidHash is returned when a hash is not a full 40-character hex digest.
	ErrInvalidHash = errors.New("invalid object hash")

	// ErrNotFound is returned when no object file exists at the hash-derived path.
	ErrNotFound = errors.New("object not found")

	// ErrCorruptObject is returned when an object cannot be inflated or its header cannot be located.
	ErrCorruptObject = errors.New("corrupt object")

	// ErrMalformedHeader is returned when a header has no kind/size separator or stray bytes after NUL.
	ErrMalformedHeader = errors.New("malformed object header")

	// ErrUnsupportedKind is returned when a header names a kind outside blob, tree and commit.
	ErrUnsupportedKind = errors.New("unsupported object kind")

	// ErrInvalidSize is returned when the header size is not a non-negative decimal integer.
	ErrInvalidSize = errors.New("invalid object size")

	// ErrSizeMismatch is returned when the payload length disagrees with the declared size.
	ErrSizeMismatch = errors.New("object size mismatch")

	// ErrSizeUnknown is returned when a write source cannot report its length up front.
	ErrSizeUnknown = errors.New("object size unknown")

	// ErrSourceRead is returned when reading the content being written fails.
	ErrSourceRead = errors.New("failed to read object source")

	// ErrSinkWrite is returned when writing the compressed object fails.
	ErrSinkWrite = errors.New("failed to write object")
)

// UnsupportedKindError carries the unrecognised kind token so callers can
// report it instead of treating the object as corrupt.
type UnsupportedKindError struct {
	Name string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedKind, e.Name)
}

// Is makes errors.Is(err, ErrUnsupportedKind) hold.
func (e *UnsupportedKindError) Is(target error) bool {
	return target == ErrUnsupportedKind
}

// Stages reported by ObjectError.
const (
	StageOpen    = "open"
	StageInflate = "inflate"
	StageHeader  = "header"
	StagePayload = "payload"
	StageEncode  = "encode"
	StagePublish = "publish"
)

// ObjectError records which object and which stage of reading or writing failed.
type ObjectError struct {
	Hash  string
	Stage string
	Err   error
}

func (e *ObjectError) Error() string {
	if e.Hash == "" {
		return fmt.Sprintf("object %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("object %s %s: %v", e.Hash, e.Stage, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}

func newObjectError(hash, stage string, err error) error {
	return &ObjectError{Hash: hash, Stage: stage, Err: err}
}
