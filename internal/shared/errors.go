package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Persistence errors
	ErrPersistence  = fmt.Errorf("persistence failure")
	ErrSongNotFound = fmt.Errorf("song not found")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
