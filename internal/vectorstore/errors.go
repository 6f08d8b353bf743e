package vectorstore

import "errors"

var errClosed = errors.New("vectorstore: store is closed")
