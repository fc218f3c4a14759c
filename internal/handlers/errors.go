package handlers

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	status  int
	Message string `doc:"Human readable error message" example:"URL not found" json:"error"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// GetStatus returns the HTTP status code of the error.
func (e *ErrorResponse) GetStatus() int {
	return e.status
}

// NewError builds an ErrorResponse. Details of errs are appended to msg.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	details := make([]string, 0, len(errs))

	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}

	if len(details) > 0 {
		msg = msg + ": " + strings.Join(details, "; ")
	}

	return &ErrorResponse{status: status, Message: msg}
}

// Every huma error, including request validation failures, is rendered as {"error": "..."}.
func init() {
	huma.NewError = NewError
}
