package bandcamp

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp/dto"
	"github.com/handiism/bandcamp-explorer/internal/bandcamp/literal"
	"github.com/handiism/bandcamp-explorer/internal/http"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// DefaultArtworkSize is the image size variant requested for cover art.
const DefaultArtworkSize = 2

var (
	tagAnchor    = regexp.MustCompile(`(?is)<a\b[^>]*\bclass\s*=\s*["'][^"']*\btag\b[^"']*["'][^>]*>(.*?)</a>`)
	markup       = regexp.MustCompile(`<[^>]*>`)
	popupImage   = regexp.MustCompile(`(?i)<a\b[^>]*\bclass\s*=\s*["']popupImage["'][^>]*\bhref\s*=\s*["']([^"']+)["']`)
	imageSize    = regexp.MustCompile(`_\d+\.(jpg|jpeg|png|gif)$`)
	scriptAssign = regexp.MustCompile(`\bvar\s+TralbumData\s*=\s*`)
)

// Parser builds releases from album and track pages.
//
// Bandcamp embeds the item data as an object literal, either in a
// data-tralbum attribute or in a "var TralbumData = {...};" script. Tags
// and cover art come from the surrounding HTML.
//
// Example usage:
//
//	parser := bandcamp.NewParser(client, bandcamp.DefaultArtworkSize, log)
//	release, err := parser.Parse(ctx, "https://artist.bandcamp.com/album/name")
//	if errors.Is(err, bandcamp.ErrDataInvalid) {
//	    // not an item page
//	}
type Parser struct {
	client      *http.Client
	artworkSize int
	log         *logger.Logger
}

// NewParser creates a Parser. artworkSize selects the cover image variant.
func NewParser(client *http.Client, artworkSize int, log *logger.Logger) *Parser {
	return &Parser{
		client:      client,
		artworkSize: artworkSize,
		log:         logger.OrDiscard(log).WithComponent("parser"),
	}
}

// Parse downloads itemURL and builds its Release.
//
// Fetch failures are returned as they come from the client and carry the
// HTTP status when one was received. Pages without item data fail with
// ErrDataInvalid.
func (p *Parser) Parse(ctx context.Context, itemURL string) (*model.Release, error) {
	source, err := url.Parse(itemURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataInvalid, err)
	}

	body, _, err := p.client.GetString(ctx, source)
	if err != nil {
		return nil, err
	}

	release, err := p.ParsePage(body, source)
	if err != nil {
		return nil, err
	}

	p.log.Debug("parsed item", "url", itemURL, "artist", release.Artist(), "title", release.Title(), "tracks", release.TrackCount())
	return release, nil
}

// ParsePage builds a Release from an already downloaded page.
func (p *Parser) ParsePage(body string, source *url.URL) (*model.Release, error) {
	data, end, err := extractItemData(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	tralbum, err := dto.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", source, ErrDataInvalid, err)
	}

	tags := extractTags(body[end:])
	compilation := isCompilation(tralbum.Artist, tralbum.Title, tags)

	tracks := make([]model.Track, 0, len(tralbum.Tracks))
	for i, jt := range tralbum.Tracks {
		number := i + 1
		if jt.Number != nil && *jt.Number > 0 {
			number = *jt.Number
		}

		artist, title := splitTitle(jt.Title, jt.TitleLink, tralbum.Artist, compilation)

		tracks = append(tracks, model.Track{
			Number:   number,
			Artist:   artist,
			Title:    title,
			Duration: model.NewTime(jt.Duration),
			Link:     resolve(source, jt.TitleLink),
			AudioURL: normalizeAudioURL(jt.AudioURL),
		})
	}

	artwork := extractArtwork(body, p.artworkSize)
	if artwork == "" {
		artwork = tralbum.Artwork(p.artworkSize)
	}

	return model.NewRelease(model.ReleaseInfo{
		Artist:          tralbum.Artist,
		Title:           tralbum.Title,
		About:           tralbum.About,
		Credits:         tralbum.Credits,
		DownloadType:    tralbum.DownloadType(),
		Price:           tralbum.Price(),
		ReleaseDate:     tralbum.Released(),
		PublishDate:     tralbum.PublishDate,
		Tags:            tags,
		Tracks:          tracks,
		ArtworkURL:      artwork,
		FreeDownloadURL: resolve(source, tralbum.FreeDownloadPage),
		ParentURL:       resolve(source, tralbum.AlbumURL),
		Source:          source,
		Compilation:     compilation,
	}), nil
}

// extractItemData locates and parses the embedded item literal. It returns
// the offset at which the literal ends in page.
func extractItemData(page string) (*literal.Value, int, error) {
	const attrStart = `data-tralbum="`

	if start := strings.Index(page, attrStart); start >= 0 {
		start += len(attrStart)
		length := strings.IndexByte(page[start:], '"')
		if length < 0 {
			return nil, 0, fmt.Errorf("%w: unterminated data-tralbum attribute", ErrDataInvalid)
		}
		v, err := literal.Parse(html.UnescapeString(page[start : start+length]))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrDataInvalid, err)
		}
		return v, start + length, nil
	}

	if loc := scriptAssign.FindStringIndex(page); loc != nil {
		v, n, err := literal.ParsePrefix(page[loc[1]:])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrDataInvalid, err)
		}
		return v, loc[1] + n, nil
	}

	return nil, 0, fmt.Errorf("%w: no item data on page", ErrDataInvalid)
}

// extractTags returns the lowercased tag texts in page order without duplicates.
func extractTags(fragment string) []string {
	var tags []string
	seen := make(map[string]struct{})

	for _, m := range tagAnchor.FindAllStringSubmatch(fragment, -1) {
		text := markup.ReplaceAllString(m[1], "")
		tag := strings.ToLower(strings.Join(strings.Fields(unescapeEntities(text)), " "))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

// extractArtwork finds the cover popup link and rewrites it to size.
func extractArtwork(page string, size int) string {
	m := popupImage.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	href := unescapeEntities(m[1])
	if !imageSize.MatchString(href) {
		return href
	}
	return imageSize.ReplaceAllString(href, fmt.Sprintf("_%d.jpg", size))
}

// normalizeAudioURL forces stream links to plain http and drops malformed ones.
func normalizeAudioURL(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "//"):
		raw = "http:" + raw
	case strings.HasPrefix(strings.ToLower(raw), "https://"):
		raw = "http://" + raw[len("https://"):]
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "http" || u.Host == "" {
		return ""
	}
	return u.String()
}

// resolve makes ref absolute against base. Empty and malformed refs yield "".
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := base.Parse(ref)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.String()
}
