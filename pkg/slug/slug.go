// Package slug builds and parses the human-readable item and user paths used
// by the marketplace UI: /item/<slug>-<shortid> and /user/<slug>-<shortid>.
package slug

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	MaxLen      = 50
	ShortIDLen  = 8
	defaultUser = "user"
)

// Slugify lowercases s, drops everything except a-z, 0-9, whitespace and
// hyphens, turns whitespace runs into a hyphen, collapses hyphen runs and
// cuts the result to MaxLen. Leading and trailing hyphens are kept so
// existing links stay stable.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep {
				b.WriteByte('-')
				pendingSep = false
			}
			b.WriteRune(r)
		case r == '-' || isSpace(r):
			pendingSep = true
		}
	}
	if pendingSep {
		b.WriteByte('-')
	}

	out := b.String()
	if len(out) > MaxLen {
		out = out[:MaxLen]
	}
	return out
}

// ShortID returns the first ShortIDLen characters of id.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) > ShortIDLen {
		r = r[:ShortIDLen]
	}
	return string(r)
}

// ItemPath builds /item/<slug(title)>-<ShortID(id)>.
func ItemPath(id, title string) string {
	return "/item/" + Slugify(title) + "-" + ShortID(id)
}

// UserPath builds /user/<slug(name)>-<ShortID(id)>; an empty name slugs as
// "user".
func UserPath(id, displayName string) string {
	if displayName == "" {
		displayName = defaultUser
	}
	return "/user/" + Slugify(displayName) + "-" + ShortID(id)
}

// ExtractID recovers the identifier from a path segment. A canonical UUID
// (the old link format) is returned unchanged; otherwise the text after the
// last hyphen is the short id. Input without a hyphen is returned as is.
//
// Short ids that themselves contain a hyphen cannot be recovered; ids are
// UUIDs, whose first 8 characters never do.
func ExtractID(param string) string {
	if isCanonicalUUID(param) {
		return param
	}
	if i := strings.LastIndexByte(param, '-'); i >= 0 {
		return param[i+1:]
	}
	return param
}

func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// isSpace matches the whitespace class the web client slugs with: Unicode
// White_Space plus the byte order mark, minus NEL.
func isSpace(r rune) bool {
	switch r {
	case '\ufeff':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}
