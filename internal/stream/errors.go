package stream

import "errors"

// ErrNoSource is returned by Run when the runner has neither a preset
// source nor a dial function.
var ErrNoSource = errors.New("stream: no event source configured")

// ErrNoProvider is returned by Run when no snapshot provider is set.
var ErrNoProvider = errors.New("stream: no snapshot provider configured")
