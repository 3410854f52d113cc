package payload

import "errors"

var (
	ErrMarkerNotFound     = errors.New("payload marker not found")
	ErrSizeFieldShort     = errors.New("payload size field truncated")
	ErrSizeZero           = errors.New("payload size is zero")
	ErrSizeExceedsSpace   = errors.New("payload size exceeds space before marker")
	ErrSizeExceedsMaximum = errors.New("payload size exceeds maximum")
)
