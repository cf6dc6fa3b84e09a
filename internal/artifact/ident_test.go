package artifact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/droplet/service/internal/storage"
)

func TestNewIDShape(t *testing.T) {
	id := newID("")
	assert.Len(t, id, idLength)
	for _, c := range id {
		assert.Contains(t, idAlphabet, string(c))
	}
}

func TestNewIDKeepsExtension(t *testing.T) {
	cases := map[string]string{
		"screenshot.PNG":      ".png",
		"archive.tar.gz":      ".gz",
		"noextension":         "",
		"trailingdot.":        "",
		"weird.ext!with?junk": "",
		"/etc/passwd":         "",
		"../../escape.png":    ".png",
	}
	for filename, wantExt := range cases {
		id := newID(filename)
		if wantExt == "" {
			assert.Len(t, id, idLength, filename)
		} else {
			assert.True(t, strings.HasSuffix(id, wantExt), "%s -> %s", filename, id)
			assert.Len(t, id, idLength+len(wantExt), filename)
		}
	}
}

func TestNewIDIsURLAndPathSafe(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := newID("photo.jpeg")
		assert.True(t, storage.ValidID(id), id)
		assert.NotContains(t, id, "/")
	}
}

func TestNewIDUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := newID("f.png")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
