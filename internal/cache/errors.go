package cache

import "errors"

var errNilRelease = errors.New("cache: loader returned no release")
