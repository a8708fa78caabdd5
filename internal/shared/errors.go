package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session and credential errors
	ErrUnauthenticated = fmt.Errorf("not signed in")
	ErrAuthExpired     = fmt.Errorf("write credential rejected")
	ErrAuthFailed      = fmt.Errorf("authentication failed")

	// Backing store errors
	ErrAccessDenied = fmt.Errorf("permission or quota denied")
	ErrTransport    = fmt.Errorf("backing store request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
