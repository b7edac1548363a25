package weather

import "errors"

// Sentinel kinds for weather client errors.
var (
	ErrRangeTooLong   = errors.New("forecast range exceeds upstream horizon")
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)
