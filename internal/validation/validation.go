package validation

// Error reports input the caller must fix. Handlers answer it with 400.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &Error{Field: field, Message: message}
}
