package objects

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
)

// ValidateHash normalises a full hex SHA-1 to lowercase.
// Abbreviated hashes are rejected; resolving them is the caller's job.
func ValidateHash(hash string) (string, error) {
	if len(hash) != constants.HashStringLength {
		return "", fmt.Errorf("%w: %q is %d characters, want %d", ErrInvalidHash, hash, len(hash), constants.HashStringLength)
	}
	hash = strings.ToLower(hash)
	if _, err := hex.DecodeString(hash); err != nil {
		return "", fmt.Errorf("%w: %q is not hexadecimal", ErrInvalidHash, hash)
	}
	return hash, nil
}

// ObjectPath maps a validated hash to objectsDir/<first 2 chars>/<rest>.
func ObjectPath(objectsDir, hash string) string {
	return filepath.Join(objectsDir, hash[:constants.HashDirPrefixLength], hash[constants.HashDirPrefixLength:])
}
