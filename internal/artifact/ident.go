package artifact

import (
	"crypto/rand"
	"math/big"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	idLength   = 8
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// extPattern accepts short alphanumeric extensions only; anything stranger
// is dropped rather than copied into the identifier.
var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

// newID allocates a random identifier safe for use as a URL path segment and
// a file name. The original filename's extension is kept (lowercased) so
// generated links hint at the content type; the rest of the name is
// discarded. Uniqueness against live artifacts is enforced at publish time,
// where a collision makes the caller re-allocate.
func newID(originalFilename string) string {
	b := make([]byte, idLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(idAlphabet))))
		if err != nil {
			// crypto/rand never fails on supported platforms.
			panic("ident: " + err.Error())
		}
		b[i] = idAlphabet[n.Int64()]
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(originalFilename)))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return string(b) + ext
}
