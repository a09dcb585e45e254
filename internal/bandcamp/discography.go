package bandcamp

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/handiism/bandcamp-explorer/internal/http"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/model"
)

// linkPattern matches /album/<slug> and /track/<slug> paths, optionally
// preceded by a scheme relative or absolute authority.
var linkPattern = regexp.MustCompile(`(?i)((?:https?:)?//[a-z0-9](?:[a-z0-9.-]*[a-z0-9])?(?::\d+)?)?/(?:album|track)/[^\s"'<>?#&\\]+`)

// Discography extracts item links from listing pages: search results, tag
// listings, artist music pages or any other page that links to releases.
type Discography struct{}

// NewDiscography creates a new Discography service.
func NewDiscography() *Discography {
	return &Discography{}
}

// ExtractLinks returns the unique item links found in body, in page order.
//
// Links are lowercased. Bare paths are made absolute with the scheme and host
// of base; links that still do not form a valid absolute URL are dropped.
func (d *Discography) ExtractLinks(body string, base *url.URL) []string {
	matches := linkPattern.FindAllString(body, -1)

	seen := make(map[model.Identity]struct{}, len(matches))
	links := make([]string, 0, len(matches))

	for _, match := range matches {
		u, ok := absoluteLink(strings.ToLower(match), base)
		if !ok {
			continue
		}

		id := model.IdentityOf(u)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, u.String())
	}

	return links
}

func absoluteLink(link string, base *url.URL) (*url.URL, bool) {
	switch {
	case strings.HasPrefix(link, "//"):
		scheme := "https"
		if base != nil && (base.Scheme == "http" || base.Scheme == "https") {
			scheme = base.Scheme
		}
		link = scheme + ":" + link
	case strings.HasPrefix(link, "/"):
		if base == nil || base.Host == "" {
			return nil, false
		}
		link = base.Scheme + "://" + strings.ToLower(base.Host) + link
	}

	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}

// Fetcher downloads resource pages and collects their item links.
type Fetcher struct {
	client *http.Client
	disco  *Discography
	log    *logger.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(client *http.Client, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		disco:  NewDiscography(),
		log:    logger.OrDiscard(log).WithComponent("fetcher"),
	}
}

// FetchLinks fetches page of query through strategy and returns its item
// links. When ctx is already done it returns no links and performs no I/O.
func (f *Fetcher) FetchLinks(ctx context.Context, strategy Strategy, query string, page int) ([]string, error) {
	if ctx.Err() != nil {
		return nil, nil
	}

	u, err := strategy.ResourceURL(query, page)
	if err != nil {
		return nil, err
	}

	f.log.Info("fetching resource", "strategy", strategy.Name(), "url", u.String(), "page", page)

	body, final, err := f.client.GetString(ctx, u)
	if err != nil {
		return nil, err
	}

	links := f.disco.ExtractLinks(body, final)
	f.log.Debug("resource links", "url", final.String(), "count", len(links))
	return links, nil
}
