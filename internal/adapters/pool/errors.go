package pool

import "errors"

// ErrPoolClosed reports a job submitted after shutdown began.
var ErrPoolClosed = errors.New("worker pool closed")
