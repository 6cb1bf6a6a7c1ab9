package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrUnknownDialect  = fmt.Errorf("unknown database dialect")
	ErrPrimaryDisabled = fmt.Errorf("primary backend not configured")

	// Backend errors
	ErrBackendUnreachable  = fmt.Errorf("backend unreachable")
	ErrConstraintViolation = fmt.Errorf("constraint violation")
	ErrMirrorWrite         = fmt.Errorf("mirror write failed")
	ErrMissingPinger       = fmt.Errorf("no pinger configured")

	// Lookup errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrSongNotFound     = fmt.Errorf("song not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidPosition = fmt.Errorf("invalid position")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
