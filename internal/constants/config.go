package constants

import "os"

// Command name constants used in tests and error messages.
// Cobra Use fields remain inline for CLI discoverability.
const (
	InitCmdName       = "init"
	HashObjectCmdName = "hash-object"
	CatFileCmdName    = "cat-file"
	LsTreeCmdName     = "ls-tree"
)

// Repository directory and file names define the semigit metadata structure.
const (
	// SemiGit is the repository metadata directory (the store root).
	SemiGit = ".semigit"

	// Objects stores content-addressable objects (blobs, trees, commits).
	Objects = "objects"

	// Refs contains branch and tag references.
	Refs = "refs"

	// Heads stores branch pointers under refs/.
	Heads = "heads"

	// Tags stores tag pointers under refs/.
	Tags = "tags"

	// Head points to current branch or detached commit.
	Head = "HEAD"

	// ConfigFile holds repository-local settings read by the CLI.
	ConfigFile = "config.yaml"

	// StagingPattern names the scratch file objects are written to before publish.
	StagingPattern = "tmp_obj_*"
)

// Default repository values.
const (
	// DefaultBranch is the initial branch name for new repositories.
	DefaultBranch = "main"

	// DefaultRefPrefix is prepended to branch names in HEAD file.
	DefaultRefPrefix = "ref: refs/heads/"
)

// File system permissions for created files and directories.
const (
	// DirPerms grants read/write/execute to owner, read/execute to others (rwxr-xr-x).
	DirPerms os.FileMode = 0755

	// FilePerms grants read/write to owner, read-only to others (rw-r--r--).
	FilePerms os.FileMode = 0644

	// ObjectPerms makes published objects read-only (r--r--r--).
	ObjectPerms os.FileMode = 0444
)

// Cryptographic hash properties.
const (
	// HashByteLength is byte length of SHA-1 hash (20 bytes).
	HashByteLength = 20

	// HashStringLength is hex string length of SHA-1 hash (40 characters).
	HashStringLength = 40

	// HashDirPrefixLength is subdirectory prefix length under objects/ (2 characters).
	HashDirPrefixLength = 2
)

// Object format constants.
const (
	// NullByte separates header from content in objects.
	NullByte = '\x00'

	// HeaderSeparator splits the kind token from the decimal size.
	HeaderSeparator = ' '

	// MaxHeaderLength bounds the header scan. The longest valid header is
	// "commit " plus 19 digits plus NUL; anything past this is corrupt.
	MaxHeaderLength = 64
)

// Commit metadata line prefixes.
const (
	CommitTreePrefix      = "tree "
	CommitParentPrefix    = "parent "
	CommitAuthorPrefix    = "author "
	CommitCommitterPrefix = "committer "
)

// Time conversion constants for timezone formatting.
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
)
