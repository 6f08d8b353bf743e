package bm25

import "errors"

var errClosed = errors.New("bm25: index is closed")
