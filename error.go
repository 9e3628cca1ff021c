package besi

// Error is the JSON shape of an error response body.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ErrorResponse builds a JSON error response for the given status code.
func ErrorResponse(status int, message string) *Response {
	return JSON(status, &Error{Status: status, Message: message})
}
