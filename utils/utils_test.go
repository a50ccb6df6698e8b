package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDirPath(t *testing.T) {
	sep := string(filepath.Separator)

	assert.Equal(t, "."+sep+".semigit"+sep, BuildDirPath(".", ".semigit"))
	assert.Equal(t, "repo"+sep, BuildDirPath("repo"))
}
