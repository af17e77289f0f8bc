package config

import "fmt"

// Error reports an invalid or unreadable configuration value.
type Error struct {
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[CONFIG_ERROR] %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[CONFIG_ERROR] %s: %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
