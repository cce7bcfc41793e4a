package gate

import "errors"

// Sentinel errors returned by Outcome.Err.
var (
	ErrSectionLocked  = errors.New("previous section must be confirmed first")
	ErrUnknownSection = errors.New("unknown section")
)
