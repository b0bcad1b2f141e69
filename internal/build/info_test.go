package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_IncludesVersionAndDate(t *testing.T) {
	s := String()
	assert.Contains(t, s, Version)
	assert.Contains(t, s, "built "+BuildDate)
}

func TestCommit_PrefersStampedValue(t *testing.T) {
	orig := CommitSHA
	t.Cleanup(func() { CommitSHA = orig })

	CommitSHA = "abc123"
	assert.Equal(t, "abc123", Commit())
}
