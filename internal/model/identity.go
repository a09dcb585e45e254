package model

import (
	"fmt"
	"net/url"
	"strings"
)

// Identity is the canonical key of an item: lowercased host followed by the
// lowercased path. Scheme, port, query and fragment are discarded.
type Identity string

// IdentityOf derives the Identity of u.
func IdentityOf(u *url.URL) Identity {
	return Identity(strings.ToLower(u.Hostname()) + strings.ToLower(u.Path))
}

// IdentityFromString parses rawURL and derives its Identity.
func IdentityFromString(rawURL string) (Identity, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid item URL %q: %w", rawURL, err)
	}
	return IdentityOf(u), nil
}

func (id Identity) String() string {
	return string(id)
}
