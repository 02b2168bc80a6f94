package archive

import "errors"

// ErrClosed is returned by Store methods called after Close.
var ErrClosed = errors.New("archive: store is closed")
