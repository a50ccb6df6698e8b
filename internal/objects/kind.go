package objects

// Kind is the object type named in every object header.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindBlob, KindTree, KindCommit:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind maps a header token to a Kind by exact match.
func ParseKind(token string) (Kind, error) {
	kind := Kind(token)
	if !kind.IsValid() {
		return "", &UnsupportedKindError{Name: token}
	}
	return kind, nil
}
