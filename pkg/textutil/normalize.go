// Package textutil normalizes free-text names extracted from civic
// documents so that the same person spelled with different widths,
// spacing or compatibility characters resolves to one key.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// honorifics commonly appended to speaker names in Japanese minutes.
var honorifics = []string{"君", "氏", "議員", "委員", "さん"}

// NormalizeName canonicalizes a person name: NFKC folding (full-width to
// half-width, compatibility forms), whitespace collapse, and trimming.
func NormalizeName(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), "")
	return strings.TrimSpace(s)
}

// StripHonorific removes a trailing honorific from a normalized name.
// Only one suffix is removed; "田中太郎君" and "田中太郎" collapse to the
// same key but "君" alone is left untouched.
func StripHonorific(s string) string {
	for _, h := range honorifics {
		if strings.HasSuffix(s, h) && s != h {
			return strings.TrimSuffix(s, h)
		}
	}
	return s
}

// SpeakerKey builds the dedup key for a speaker name: normalized with
// honorifics stripped.
func SpeakerKey(name string) string {
	return StripHonorific(NormalizeName(name))
}
