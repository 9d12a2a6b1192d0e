package errresponse

import (
	"net/http"

	"github.com/go-chi/render"
)

const (
	MessageNotFound       = "Couldn't find any blog article with provided id."
	MessageGeneric        = "An error occurred."
	MessageInvalid        = "Invalid request."
	MessageTooLarge       = "Uploaded file is too large."
	MessageNotImplemented = "Not yet specified."
)

// ErrResponse renderer type for handling all sorts of errors.
//
// Err keeps the low-level cause for logging; it is never marshalled.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"` // field-level validation messages
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func newErr(err error, code int, message string) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		Status:         code,
		Message:        message,
	}
}

// ErrNotFound is the terminal response for an unknown article or thumbnail.
func ErrNotFound(message string) render.Renderer {
	return newErr(nil, http.StatusNotFound, message)
}

// ErrBackend hides a store failure behind the generic message.
func ErrBackend(err error) render.Renderer {
	return newErr(err, http.StatusBadRequest, MessageGeneric)
}

// ErrInvalidRequest reports a payload that could not be decoded.
func ErrInvalidRequest(err error) render.Renderer {
	return newErr(err, http.StatusBadRequest, MessageInvalid)
}

// ErrValidation reports field-level validation failures.
func ErrValidation(err error, fields map[string]string) render.Renderer {
	e := newErr(err, http.StatusBadRequest, MessageInvalid)
	e.Errors = fields

	return e
}

func ErrTooLarge(err error) render.Renderer {
	return newErr(err, http.StatusRequestEntityTooLarge, MessageTooLarge)
}

func ErrNotImplemented() render.Renderer {
	return newErr(nil, http.StatusNotImplemented, MessageNotImplemented)
}

// ErrRender is used when a response could not be marshalled.
func ErrRender(err error) render.Renderer {
	return newErr(err, http.StatusUnprocessableEntity, "Error rendering response.")
}
