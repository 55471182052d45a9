package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

// TestErrorResponse_Render verifies the Render method sets the correct status code.
func TestErrorResponse_Render(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      *ErrorResponse
		expected int
	}{
		{"BadRequest", BadRequestError(errors.New("bad input")), 400},
		{"ServerError", Error(errors.New("server error")), 500},
		{"NotFound", ErrNotFound, 404},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/", nil)

			err := tc.err.Render(w, r)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, tc.err.Code)
		})
	}
}

func TestProtocolError(t *testing.T) {
	t.Parallel()

	stopped := ProtocolError(types.ErrNodeStopped)
	assert.Equal(t, http.StatusBadRequest, stopped.Code)
	assert.Equal(t, "Node is stopped", stopped.String())
	assert.ErrorIs(t, stopped, types.ErrNodeStopped)

	malformed := ProtocolError(fmt.Errorf("%w: round 0", types.ErrMalformedMessage))
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
	assert.ErrorIs(t, malformed, types.ErrMalformedMessage)

	other := ProtocolError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, other.Code)
	assert.Equal(t, "boom", other.String())

	assert.Equal(t, "Resource not found.", ErrNotFound.String())
	assert.Equal(t, "Resource not found.", ErrNotFound.Error())
}

func TestHandler(t *testing.T) {
	t.Parallel()

	h := Handler(func(w http.ResponseWriter, r *http.Request) error {
		switch r.URL.Path {
		case "/text":
			return Text(w, r, http.StatusTeapot, "short and stout")
		case "/json":
			return Render(w, r, map[string]int{"k": 1})
		case "/stopped":
			return ProtocolError(types.ErrNodeStopped)
		default:
			return errors.New("plain error")
		}
	})

	testCases := []struct {
		path   string
		accept string
		code   int
		body   string
	}{
		{"/text", "", http.StatusTeapot, "short and stout"},
		{"/json", "", http.StatusOK, "{\"k\":1}\n"},
		{"/stopped", "", http.StatusBadRequest, "Node is stopped"},
		{"/stopped", "application/json", http.StatusBadRequest, "{\"status\":\"Bad Request\",\"error\":\"Node is stopped\"}\n"},
		{"/other", "", http.StatusInternalServerError, "plain error"},
	}
	for _, tc := range testCases {
		t.Run(tc.path+tc.accept, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tc.path, nil)
			if tc.accept != "" {
				r.Header.Set("Accept", tc.accept)
			}
			h(w, r)

			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}
