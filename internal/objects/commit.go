package objects

import (
	"bytes"
	"fmt"
	"time"

	"github.com/GitUser-3-2-3/Semi-Git/internal/constants"
)

// Represents commit author/committer
type Author struct {
	Name      string
	Email     string
	Timestamp time.Time
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>",
		a.Name,
		a.Email)
}

// Commit is kept opaque by the store; this builder only produces payloads
// in the conventional layout so they can be stored and read back.
type Commit struct {
	hash       string
	treeHash   string
	parentHash string
	author     Author
	committer  Author
	message    string
}

func NewCommit(treeHash, parentHash, message string, author Author) (*Commit, error) {
	content := buildCommitContent(treeHash, parentHash, message, author)
	hash, err := HashContent(KindCommit, content)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hash for commit: %w", err)
	}

	return &Commit{
		hash:       hash,
		treeHash:   treeHash,
		parentHash: parentHash,
		author:     author,
		committer:  author,
		message:    message,
	}, nil
}

func NewInitialCommit(treeHash, message string, author Author) (*Commit, error) {
	return NewCommit(treeHash, "", message, author)
}

func buildCommitContent(treeHash, parentHash, message string, author Author) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s%s\n", constants.CommitTreePrefix, treeHash)

	if parentHash != "" {
		fmt.Fprintf(&buf, "%s%s\n", constants.CommitParentPrefix, parentHash)
	}

	_, offset := author.Timestamp.Zone()
	timezone := formatTimezone(offset)
	fmt.Fprintf(&buf, "%s%s %d %s\n", constants.CommitAuthorPrefix, author, author.Timestamp.Unix(), timezone)
	fmt.Fprintf(&buf, "%s%s %d %s\n", constants.CommitCommitterPrefix, author, author.Timestamp.Unix(), timezone)

	// Blank line before message
	buf.WriteByte('\n')

	buf.WriteString(message)
	if len(message) > 0 && message[len(message)-1] != '\n' {
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// formatTimezone converts a UTC offset in seconds to ±HHMM.
func formatTimezone(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	hours := offset / constants.SecondsPerHour
	minutes := (offset % constants.SecondsPerHour) / constants.SecondsPerMinute
	return fmt.Sprintf("%c%02d%02d", sign, hours, minutes)
}

func (c *Commit) Kind() Kind {
	return KindCommit
}

func (c *Commit) Hash() string {
	return c.hash
}

func (c *Commit) Content() []byte {
	return buildCommitContent(c.treeHash, c.parentHash, c.message, c.author)
}

func (c *Commit) String() string {
	return fmt.Sprintf("Commit{hash: %s, tree: %s, parent: %s, author: %s, message: %q}",
		c.hash, c.treeHash, c.parentHash, c.author.String(), c.message)
}
