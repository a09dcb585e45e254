package bandcamp

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	compilationArtist = regexp.MustCompile(`(?i)^\s*(various(\s+artists?)?|v\.?\s*/\s*a\.?|v\.a\.?|va)\s*$`)
	labelArtist       = regexp.MustCompile(`(?i)\b(records|recordings|netlabel|label|collective|tapes|music group)\s*$`)
	compilationTitle  = regexp.MustCompile(`(?i)\b(compilation|sampler|split)\s*([\W\d]*|vol(ume)?\.?\s*\w+)$`)

	// titleSeparator is one or more hyphen or dash variants surrounded by whitespace.
	titleSeparator = regexp.MustCompile(`\s+[-\x{2010}-\x{2015}\x{2212}\x{FE58}\x{FE63}\x{FF0D}]+\s+`)

	trailingNumber = regexp.MustCompile(`-\d+$`)
	nonSlug        = regexp.MustCompile(`[^a-z0-9]+`)
)

var compilationTags = map[string]struct{}{
	"compilation":     {},
	"compilations":    {},
	"various artists": {},
	"various":         {},
	"va":              {},
	"v/a":             {},
	"split":           {},
	"sampler":         {},
}

// placeholders are minimized artist names that carry no information.
var placeholders = map[string]struct{}{
	"":               {},
	"va":             {},
	"various":        {},
	"variousartists": {},
	"unknown":        {},
	"unknownartist":  {},
	"artist":         {},
}

// isCompilation reports whether a release looks like it has several artists.
func isCompilation(artist, title string, tags []string) bool {
	if compilationArtist.MatchString(artist) || labelArtist.MatchString(artist) {
		return true
	}
	if compilationTitle.MatchString(title) {
		return true
	}
	for _, tag := range tags {
		if _, ok := compilationTags[tag]; ok {
			return true
		}
	}
	return false
}

// splitTitle separates "Artist - Title" track titles.
//
// On compilations any separator splits. Otherwise the title is split only
// when the part before the separator is contained in the release artist or
// is a placeholder, or when the track link slug does not match the slug of
// the whole raw title, which means the title embeds another artist.
func splitTitle(raw, titleLink, releaseArtist string, compilation bool) (artist, title string) {
	raw = strings.TrimSpace(raw)
	loc := titleSeparator.FindStringIndex(raw)
	if loc == nil {
		return releaseArtist, raw
	}

	candArtist := strings.TrimSpace(raw[:loc[0]])
	candTitle := strings.TrimSpace(raw[loc[1]:])
	if candArtist == "" || candTitle == "" {
		return releaseArtist, raw
	}

	if compilation {
		return candArtist, candTitle
	}

	if strings.Contains(strings.ToLower(releaseArtist), strings.ToLower(candArtist)) {
		return releaseArtist, candTitle
	}
	if _, ok := placeholders[minimize(candArtist)]; ok {
		return releaseArtist, candTitle
	}

	if token := linkToken(titleLink); token != "" {
		if minimize(stripNumber(token)) != minimize(stripNumber(slug(raw))) {
			return candArtist, candTitle
		}
	}

	return releaseArtist, raw
}

// linkToken returns the last path segment of a track link.
func linkToken(link string) string {
	if link == "" {
		return ""
	}
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	token := path.Base(strings.TrimRight(link, "/"))
	if token == "." || token == "/" {
		return ""
	}
	return strings.ToLower(token)
}

func stripNumber(s string) string {
	return trailingNumber.ReplaceAllString(s, "")
}

// fold removes diacritics: "Čćé" becomes "Cce".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// slug renders s the way Bandcamp builds page slugs: ASCII letters and
// digits joined by single dashes.
func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(fold(s)), "-"), "-")
}

// minimize reduces s to its ASCII letters and digits.
func minimize(s string) string {
	return strings.ReplaceAll(slug(s), "-", "")
}
