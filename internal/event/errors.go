package event

import "errors"

// ErrNotObject indicates a frame that is not a JSON object.
var ErrNotObject = errors.New("event: frame is not a JSON object")
