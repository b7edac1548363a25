package events

import "errors"

// Sentinel kinds for event source errors.
var (
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)
