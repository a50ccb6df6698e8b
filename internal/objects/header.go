package objects

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
)

// EncodeHeader builds the envelope prefixed to every payload:
// "<kind> <size>\0".
func EncodeHeader(kind Kind, size int64) []byte {
	header := make([]byte, 0, len(kind)+22)
	header = append(header, kind...)
	header = append(header, constants.HeaderSeparator)
	header = strconv.AppendInt(header, size, 10)
	return append(header, constants.NullByte)
}

// ParseHeader decodes a NUL-terminated header. The NUL must be the last byte.
func ParseHeader(header []byte) (Kind, int64, error) {
	nullByteIndex := bytes.IndexByte(header, constants.NullByte)
	if nullByteIndex == -1 {
		return "", 0, fmt.Errorf("%w: missing NUL terminator", ErrMalformedHeader)
	}
	if nullByteIndex != len(header)-1 {
		return "", 0, fmt.Errorf("%w: %d trailing bytes after NUL", ErrMalformedHeader, len(header)-1-nullByteIndex)
	}
	fields := header[:nullByteIndex]

	kindToken, sizeToken, found := bytes.Cut(fields, []byte{constants.HeaderSeparator})
	if !found {
		return "", 0, fmt.Errorf("%w: %q has no size field", ErrMalformedHeader, fields)
	}

	kind, err := ParseKind(string(kindToken))
	if err != nil {
		return "", 0, err
	}

	size, err := parseSize(sizeToken)
	if err != nil {
		return "", 0, err
	}

	return kind, size, nil
}

// parseSize accepts only unsigned decimal digits that fit in an int64.
func parseSize(token []byte) (int64, error) {
	size, err := strconv.ParseUint(string(token), 10, 64)
	if err != nil || size > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, token)
	}
	return int64(size), nil
}
