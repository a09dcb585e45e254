package bandcamp

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// DefaultSiteURL is the root used for search and tag pages.
const DefaultSiteURL = "https://bandcamp.com"

// MaxTagPages is roughly where Bandcamp stops serving tag listing pages.
const MaxTagPages = 10

// ErrInvalidQuery is returned when a query cannot be turned into a resource URL.
var ErrInvalidQuery = errors.New("invalid query")

// SearchType selects how a query is turned into resource pages.
type SearchType int

const (
	// TypeSearch runs a full text search.
	TypeSearch SearchType = iota

	// TypeTag lists releases carrying a tag, newest first.
	TypeTag

	// TypeDirect reads a single page or local file.
	TypeDirect
)

func (t SearchType) String() string {
	switch t {
	case TypeSearch:
		return "search"
	case TypeTag:
		return "tag"
	case TypeDirect:
		return "direct"
	default:
		return "searchtype(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseSearchType converts a name such as "tag" to a SearchType.
func ParseSearchType(s string) (SearchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "search", "":
		return TypeSearch, nil
	case "tag":
		return TypeTag, nil
	case "direct", "url":
		return TypeDirect, nil
	default:
		return 0, fmt.Errorf("unknown search type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t SearchType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SearchType) UnmarshalText(text []byte) error {
	parsed, err := ParseSearchType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Strategy turns a query and a 1-based page number into a resource URL.
type Strategy interface {
	Name() string
	ResourceURL(query string, page int) (*url.URL, error)

	// MultiPage reports whether pages beyond the first exist.
	MultiPage() bool

	// MaxPages caps the page count, 0 meaning no cap.
	MaxPages() int
}

// NewStrategy returns the Strategy for t. siteURL defaults to DefaultSiteURL.
func NewStrategy(t SearchType, siteURL string) (Strategy, error) {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	site, err := url.Parse(strings.TrimRight(siteURL, "/"))
	if err != nil || site.Host == "" {
		return nil, fmt.Errorf("invalid site URL %q", siteURL)
	}

	switch t {
	case TypeSearch:
		return &SearchStrategy{site: site}, nil
	case TypeTag:
		return &TagStrategy{site: site}, nil
	case TypeDirect:
		return DirectStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown search type %v", t)
	}
}

// ClampPages limits pages to what s can serve. The result is at least 1.
func ClampPages(s Strategy, pages int) int {
	if pages < 1 || !s.MultiPage() {
		return 1
	}
	if limit := s.MaxPages(); limit > 0 && pages > limit {
		return limit
	}
	return pages
}

// SearchStrategy builds site search result pages.
type SearchStrategy struct {
	site *url.URL
}

func (s *SearchStrategy) Name() string    { return TypeSearch.String() }
func (s *SearchStrategy) MultiPage() bool { return true }
func (s *SearchStrategy) MaxPages() int   { return 0 }

// ResourceURL returns e.g. https://bandcamp.com/search?page=2&q=ambient.
func (s *SearchStrategy) ResourceURL(query string, page int) (*url.URL, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search", ErrInvalidQuery)
	}

	u := *s.site
	u.Path = "/search"
	values := url.Values{}
	values.Set("q", query)
	values.Set("page", strconv.Itoa(max(page, 1)))
	u.RawQuery = values.Encode()
	return &u, nil
}

// TagStrategy builds tag listing pages sorted by date.
type TagStrategy struct {
	site *url.URL
}

func (s *TagStrategy) Name() string    { return TypeTag.String() }
func (s *TagStrategy) MultiPage() bool { return true }
func (s *TagStrategy) MaxPages() int   { return MaxTagPages }

// ResourceURL returns e.g. https://bandcamp.com/tag/dark-ambient?page=1&sort_field=date.
func (s *TagStrategy) ResourceURL(query string, page int) (*url.URL, error) {
	tag := tagSlug(query)
	if tag == "" {
		return nil, fmt.Errorf("%w: empty tag", ErrInvalidQuery)
	}

	u := *s.site
	u.Path = "/tag/" + tag
	values := url.Values{}
	values.Set("page", strconv.Itoa(max(page, 1)))
	values.Set("sort_field", "date")
	u.RawQuery = values.Encode()
	return &u, nil
}

// tagSlug lowercases a tag and joins its words with dashes.
func tagSlug(tag string) string {
	return strings.Join(strings.Fields(strings.ToLower(tag)), "-")
}

// DirectStrategy treats the query as a page URL or a file: URL.
type DirectStrategy struct{}

func (DirectStrategy) Name() string    { return TypeDirect.String() }
func (DirectStrategy) MultiPage() bool { return false }
func (DirectStrategy) MaxPages() int   { return 1 }

// ResourceURL ignores page. A query without a scheme is read as http.
func (DirectStrategy) ResourceURL(query string, _ int) (*url.URL, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidQuery)
	}
	if !strings.Contains(query, "://") && !strings.HasPrefix(strings.ToLower(query), "file:") {
		query = "http://" + query
	}

	u, err := url.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: %q has no host", ErrInvalidQuery, query)
		}
	case "file":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidQuery, path)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidQuery, u.Scheme)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	return u, nil
}
