package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

type ErrorResponse struct {
	Err  error `json:"-"` // low-level runtime error
	Code int   `json:"-"` // http response status code

	Status  string `json:"status"`          // user-level status message
	Message string `json:"error,omitempty"` // application-level error message, for debugging
}

func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Code)
	return nil
}

func (e *ErrorResponse) Error() string {
	if e.Err == nil {
		return e.Status
	}
	return e.Err.Error()
}

func (e *ErrorResponse) Unwrap() error {
	return e.Err
}

// String is the plain text body.
func (e *ErrorResponse) String() string {
	if e.Message == "" {
		return e.Status
	}
	return e.Message
}

func BadRequestError(err error) *ErrorResponse {
	return &ErrorResponse{
		Err:     err,
		Code:    400,
		Status:  http.StatusText(400),
		Message: err.Error(),
	}
}

func Error(err error) *ErrorResponse {
	return &ErrorResponse{
		Err:     err,
		Code:    500,
		Status:  http.StatusText(500),
		Message: err.Error(),
	}
}

// ProtocolError maps node errors to responses. A stopped node and a
// malformed message are the client's problem; anything else is ours.
func ProtocolError(err error) *ErrorResponse {
	switch {
	case errors.Is(err, types.ErrNodeStopped):
		resp := BadRequestError(err)
		resp.Message = "Node is stopped"
		return resp
	case errors.Is(err, types.ErrMalformedMessage):
		return BadRequestError(err)
	default:
		return Error(err)
	}
}

var ErrNotFound = &ErrorResponse{Code: 404, Status: "Resource not found."}
