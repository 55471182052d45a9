package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/golang/gddo/httputil"
)

const (
	contentTypePlainText = "text/plain"
	contentTypeJSON      = "application/json"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Handler adapts h to http.HandlerFunc, rendering a returned error as an
// ErrorResponse (500 unless the error already is one).
func Handler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			var errResponse *ErrorResponse
			if !errors.As(err, &errResponse) {
				errResponse = Error(err)
			}

			if renderErr := renderError(w, r, errResponse); renderErr != nil {
				http.Error(w, renderErr.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// Render negotiates the content type and renders the response, defaulting to JSON.
// Response must implement fmt.Stringer to be rendered as plain text.
func Render(w http.ResponseWriter, r *http.Request, response any) error {
	return negotiate(w, r, response, contentTypeJSON)
}

// Text renders a plain text body with the given status.
func Text(w http.ResponseWriter, r *http.Request, status int, text string) error {
	render.Status(r, status)
	render.PlainText(w, r, text)
	return nil
}

// renderError writes the error message as plain text unless the client asks for JSON.
func renderError(w http.ResponseWriter, r *http.Request, e *ErrorResponse) error {
	if err := e.Render(w, r); err != nil {
		return err
	}
	return negotiate(w, r, e, contentTypePlainText)
}

func negotiate(w http.ResponseWriter, r *http.Request, response any, defaultContentType string) error {
	contentType := httputil.NegotiateContentType(
		r,
		[]string{contentTypePlainText, contentTypeJSON},
		defaultContentType,
	)

	switch contentType {
	case contentTypePlainText:
		// Try rendering as a string, otherwise fallback to JSON.
		if stringer, ok := response.(fmt.Stringer); ok {
			render.PlainText(w, r, stringer.String())
			return nil
		}
		fallthrough
	default:
		render.JSON(w, r, response)
		return nil
	}
}
