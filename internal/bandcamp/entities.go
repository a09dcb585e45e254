package bandcamp

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var entityPattern = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

// unescapeEntities replaces named and numeric character references.
// Numeric references beyond U+FFFF, surrogates and NUL are kept verbatim.
func unescapeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := ref[1 : len(ref)-1]
		if name[0] != '#' {
			return html.UnescapeString(ref)
		}

		var code uint64
		var err error
		if name[1] == 'x' || name[1] == 'X' {
			code, err = strconv.ParseUint(name[2:], 16, 32)
		} else {
			code, err = strconv.ParseUint(name[1:], 10, 32)
		}
		if err != nil || code == 0 || code > 0xFFFF || (code >= 0xD800 && code <= 0xDFFF) {
			return ref
		}
		return string(rune(code))
	})
}
