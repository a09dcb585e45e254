package search

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp"
)

// SortBy selects the order of a result.
type SortBy int

const (
	// SortPublishDateDesc lists the most recently published first.
	SortPublishDateDesc SortBy = iota
	SortPublishDateAsc
	SortReleaseDateDesc
	SortArtist
	SortTitle
	SortPriceAsc
	SortDurationDesc

	// SortRelevance ranks by similarity of artist and title to the query.
	SortRelevance
)

var sortNames = map[SortBy]string{
	SortPublishDateDesc: "publish-date-desc",
	SortPublishDateAsc:  "publish-date-asc",
	SortReleaseDateDesc: "release-date-desc",
	SortArtist:          "artist",
	SortTitle:           "title",
	SortPriceAsc:        "price-asc",
	SortDurationDesc:    "duration-desc",
	SortRelevance:       "relevance",
}

func (s SortBy) String() string {
	if name, ok := sortNames[s]; ok {
		return name
	}
	return "sortby(" + strconv.Itoa(int(s)) + ")"
}

// ParseSortBy converts a name such as "artist" to a SortBy. The empty
// string selects SortPublishDateDesc.
func ParseSortBy(s string) (SortBy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortPublishDateDesc, nil
	}
	for sort, name := range sortNames {
		if name == s {
			return sort, nil
		}
	}
	return 0, fmt.Errorf("unknown sort order %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s SortBy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SortBy) UnmarshalText(text []byte) error {
	parsed, err := ParseSortBy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SortNames returns the accepted sort names in declaration order.
func SortNames() []string {
	names := make([]string, 0, len(sortNames))
	for s := SortPublishDateDesc; s <= SortRelevance; s++ {
		names = append(names, s.String())
	}
	return names
}

// Params describes one search run.
type Params struct {
	Query string              `json:"query"`
	Type  bandcamp.SearchType `json:"type"`

	// Pages is ignored by single page search types.
	Pages int `json:"pages"`

	// Combine asks front ends to merge the result with the previous one.
	Combine bool `json:"combine"`

	Sort SortBy `json:"sort"`
}

// Validate checks p for obvious mistakes.
func (p Params) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Query) == "" {
		errs = append(errs, errors.New("query is empty"))
	}
	if p.Pages < 1 {
		errs = append(errs, fmt.Errorf("pages must be at least 1, got %d", p.Pages))
	}
	if _, ok := sortNames[p.Sort]; !ok {
		errs = append(errs, fmt.Errorf("unknown sort order %d", int(p.Sort)))
	}
	if p.Type < bandcamp.TypeSearch || p.Type > bandcamp.TypeDirect {
		errs = append(errs, fmt.Errorf("unknown search type %d", int(p.Type)))
	}
	return errors.Join(errs...)
}
