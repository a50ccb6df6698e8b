package objects

import (
	"fmt"
)

// Blob is an in-memory blob. Large files should go through
// ObjectStore.WriteBlobFile instead, which streams them.
type Blob struct {
	content []byte
	hash    string
}

// NewBlob hashes content as a blob. HashContent can only fail on a read or
// write error, and neither a bytes.Reader source nor an io.Discard sink
// returns one.
func NewBlob(content []byte) *Blob {
	hash, _ := HashContent(KindBlob, content)
	return &Blob{
		content: content,
		hash:    hash,
	}
}

func (b *Blob) Kind() Kind {
	return KindBlob
}

func (b *Blob) Hash() string {
	return b.hash
}

func (b *Blob) Content() []byte {
	return b.content
}

func (b *Blob) Size() int {
	return len(b.content)
}

func (b *Blob) String() string {
	return fmt.Sprintf("Blob{hash: %s, size: %d bytes}", b.hash, b.Size())
}
