package navigation

import "fmt"

// ConfigurationError reports a required projection option the caller left out.
type ConfigurationError struct {
	Option string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("navigation: required option %q is missing", e.Option)
}

// NotFoundError reports that no page matched any lookup of the resolution chain.
type NotFoundError struct {
	Lookup string
}

func (e *NotFoundError) Error() string {
	if e.Lookup == "" {
		return "navigation: selected page does not exist"
	}
	return fmt.Sprintf("navigation: selected page does not exist (%s)", e.Lookup)
}
