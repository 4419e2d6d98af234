// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// AppName names the binary and the config directory
const AppName = "shell-ai"

// ShortName is the shorthand binary that behaves like `shell-ai suggest`
const ShortName = "shai"

// Timeout constants used across the application
const (
	// DefaultAPITimeout is the timeout for a single chat completion request
	DefaultAPITimeout = 60 * time.Second
	// DefaultManPageTimeout bounds the man page lookup done by explain
	DefaultManPageTimeout = 5 * time.Second
)

// MaxSuggestionAttempts caps requests made while collecting unique
// suggestions, as a multiple of the requested count.
const MaxSuggestionAttempts = 2
