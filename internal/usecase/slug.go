package usecase

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	slugBaseMaxLen = 40
	slugSuffixLen  = 6
	slugAlphabet   = "abcdefghijkmnpqrstuvwxyz23456789"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugBase turns a display name into a lowercase, dash separated ASCII prefix.
func slugBase(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= slugBaseMaxLen {
			break
		}
	}
	base := strings.Trim(b.String(), "-")
	if base == "" {
		return "proposal"
	}
	return base
}

// newSlug appends a random suffix so two proposals for the same client never share a URL.
func newSlug(name string) (string, error) {
	buf := make([]byte, slugSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, c := range buf {
		buf[i] = slugAlphabet[int(c)%len(slugAlphabet)]
	}
	return slugBase(name) + "-" + string(buf), nil
}
