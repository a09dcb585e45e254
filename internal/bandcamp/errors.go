package bandcamp

import "errors"

// ErrDataInvalid is returned when an item page lacks usable item data.
var ErrDataInvalid = errors.New("item data invalid")
