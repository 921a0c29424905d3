package common

import "errors"

// Sentinel errors shared by the disk and buffer packages. Flat var-block style, matching the teacher's
// internal/utils/errors.go and abhishekchaturvedi-bplustree/common/errors.go.
var (
	ErrInvalidPoolSize    = errors.New("invalid pool size")
	ErrInvalidInitialSize = errors.New("initial size must be positive")
	ErrPageOutOfBounds    = errors.New("page offset out of bounds")
	ErrMaxMapSizeExceeded = errors.New("initial size exceeds maximum mapping size")
	ErrFileManagerNil     = errors.New("file manager is nil")
)
