package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	assert.Equal(t, "v1.0.0", Info{Version: "v1.0.0"}.Short())
	assert.Equal(t, "v1.0.0 (0123abcd)", Info{Version: "v1.0.0", VCSRevision: "0123abcdef99"}.Short())
	assert.Equal(t, "dev (0123abcd-dirty)", Info{Version: "dev", VCSRevision: "0123abcdef99", VCSModified: true}.Short())
}

func TestString(t *testing.T) {
	s := Info{Version: "v1.0.0", BuildTime: "unknown", GoVersion: "go1.25"}.String()
	assert.Equal(t, "Version: v1.0.0, Go: go1.25", s)
}

func TestWarning(t *testing.T) {
	assert.NotEmpty(t, Info{Version: "dev"}.Warning())
	assert.NotEmpty(t, Info{Version: "v1", VCSRevision: "abc", VCSModified: true}.Warning())
	assert.Empty(t, Info{Version: "v1", VCSRevision: "abc"}.Warning())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
