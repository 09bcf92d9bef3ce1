package snippet

import "errors"

var (
	// ErrMissingField is returned when a derived property or generation
	// step dereferences a configuration field that is not set.
	ErrMissingField = errors.New("missing configuration field")

	// ErrAlreadyGenerated is returned when Generate is called a second
	// time on the same ConfiguredSnippet.
	ErrAlreadyGenerated = errors.New("snippet already generated")

	// ErrBadParameter is returned when a configuration parameter
	// descriptor cannot be converted to a function parameter.
	ErrBadParameter = errors.New("cannot convert parameter")
)
