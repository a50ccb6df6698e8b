package objects

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
)

type FileMode string

const (
	ModeRegularFile FileMode = "100644" // Regular non-executable file
	ModeExecutable  FileMode = "100755" // Executable file
	ModeSymlink     FileMode = "120000" // Symbolic link
	ModeDirectory   FileMode = "040000" // Directory (tree)
	ModeSubmodule   FileMode = "160000" // Submodule (commit)
)

func (m FileMode) IsValid() bool {
	switch m {
	case ModeRegularFile, ModeExecutable, ModeSymlink, ModeDirectory, ModeSubmodule:
		return true
	default:
		return false
	}
}

// parseFileMode accepts both the padded form and git's unpadded "40000".
func parseFileMode(raw string) (FileMode, error) {
	mode := FileMode(raw)
	if len(raw) == 5 {
		mode = FileMode("0" + raw)
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid file mode: %s", raw)
	}
	return mode, nil
}

// Kind returns the kind of object an entry with this mode points at.
func (m FileMode) Kind() Kind {
	switch m {
	case ModeDirectory:
		return KindTree
	case ModeSubmodule:
		return KindCommit
	default:
		return KindBlob
	}
}

// TreeEntry represents a single entry in a tree object
type TreeEntry struct {
	mode FileMode
	name string
	hash string // hex hash of the object the entry points at
}

func NewTreeEntry(mode FileMode, name string, hash string) (*TreeEntry, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid file mode: %s", mode)
	}
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return nil, fmt.Errorf("invalid entry name: %q", name)
	}
	hash, err := ValidateHash(hash)
	if err != nil {
		return nil, err
	}
	return &TreeEntry{
		mode: mode,
		name: name,
		hash: hash,
	}, nil
}

func (e *TreeEntry) Mode() FileMode {
	return e.mode
}

func (e *TreeEntry) Name() string {
	return e.name
}

func (e *TreeEntry) Hash() string {
	return e.hash
}

func (e *TreeEntry) IsDirectory() bool {
	return e.mode == ModeDirectory
}

func (e *TreeEntry) IsExecutable() bool {
	return e.mode == ModeExecutable
}

// String formats the entry the way ls-tree prints it.
func (e *TreeEntry) String() string {
	return fmt.Sprintf("%s %s %s\t%s", e.mode, e.mode.Kind(), e.hash, e.name)
}

// Tree represents a tree object (directory)
type Tree struct {
	entries []TreeEntry
	hash    string
}

// NewTree creates a tree object from the list of Tree Entries
func NewTree(treeEntries []TreeEntry) (*Tree, error) {
	// Entries must be sorted by name in ascending order
	entries := make([]TreeEntry, len(treeEntries))
	copy(entries, treeEntries)

	slices.SortStableFunc(entries, compareTreeEntries)

	hash, err := HashContent(KindTree, buildTreeContent(entries))
	if err != nil {
		return nil, fmt.Errorf("failed to compute hash for tree: %w", err)
	}

	return &Tree{
		entries: entries,
		hash:    hash,
	}, nil
}

// compareTreeEntries implements git's tree entry sorting rules:
// - Entries are sorted by name
// - Directory names are treated as if they have a trailing "/" for comparison
func compareTreeEntries(a, b TreeEntry) int {
	return strings.Compare(getSortableName(a), getSortableName(b))
}

// getSortableName returns the name used for sorting.
// For directories, appends "/" to follow git's sorting convention.
func getSortableName(entry TreeEntry) string {
	if entry.IsDirectory() {
		return entry.Name() + "/"
	}
	return entry.Name()
}

// buildTreeContent creates the raw tree content
// <mode> <name>\0<20-byte binary SHA> , ex:
// 100644 README.md\0[binary SHA for README blob]
// 40000 src\0[binary SHA for src/ tree]
// Directory modes are stored unpadded, as git stores them.
func buildTreeContent(entries []TreeEntry) []byte {
	var buf bytes.Buffer

	for _, entry := range entries {
		buf.WriteString(strings.TrimPrefix(string(entry.Mode()), "0"))
		buf.WriteByte(' ')
		buf.WriteString(entry.Name())
		buf.WriteByte(constants.NullByte)

		// Entry hashes are validated on construction
		hashBytes, _ := hex.DecodeString(entry.Hash())
		buf.Write(hashBytes)
	}

	return buf.Bytes()
}

func (t *Tree) Kind() Kind {
	return KindTree
}

// Hash returns the SHA-1 hash of the tree
func (t *Tree) Hash() string {
	return t.hash
}

// Entries returns all tree entries
func (t *Tree) Entries() []TreeEntry {
	return t.entries
}

// Content returns the raw tree content
func (t *Tree) Content() []byte {
	return buildTreeContent(t.entries)
}

func (t *Tree) String() string {
	return fmt.Sprintf("Tree{hash: %s, entries: %d}", t.hash, len(t.entries))
}

// FindEntry finds an entry by name
func (t *Tree) FindEntry(name string) (*TreeEntry, bool) {
	for _, entry := range t.entries {
		if entry.Name() == name {
			return &entry, true
		}
	}
	return nil, false
}

// ReadTreeEntries decodes tree records from a payload stream, calling visit
// for each one in stored order. Decoding stops at the first visit error.
func ReadTreeEntries(payload io.Reader, visit func(TreeEntry) error) error {
	reader := bufio.NewReader(payload)
	for {
		rawMode, err := reader.ReadString(' ')
		if errors.Is(err, io.EOF) && rawMode == "" {
			return nil
		}
		if err != nil {
			return treeDecodeError("entry mode", err)
		}
		mode, err := parseFileMode(strings.TrimSuffix(rawMode, " "))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptObject, err)
		}

		rawName, err := reader.ReadString(constants.NullByte)
		if err != nil {
			return treeDecodeError("entry name", err)
		}
		name := strings.TrimSuffix(rawName, string(constants.NullByte))

		hashBytes := make([]byte, constants.HashByteLength)
		if _, err := io.ReadFull(reader, hashBytes); err != nil {
			return treeDecodeError("entry hash", err)
		}

		entry, err := NewTreeEntry(mode, name, hex.EncodeToString(hashBytes))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptObject, err)
		}
		if err := visit(*entry); err != nil {
			return err
		}
	}
}

// treeDecodeError keeps size/inflate errors from the payload reader intact
// and reports a cut-off record as corruption.
func treeDecodeError(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated tree %s", ErrCorruptObject, field)
	}
	return err
}
