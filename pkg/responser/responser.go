package responser

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// ContentType is written on every rendered envelope.
const ContentType = "application/json; charset=utf-8"

var jsonContentType = []string{ContentType}

// Empty stands in for "no payload". An envelope over Empty never serializes data.
type Empty struct{}

// Responser is the envelope every endpoint responds with.
//
// HTTPStatus is the transport status of the response and is never part of the
// JSON body, which only carries status, message and data (in that order).
type Responser[T any] struct {
	HTTPStatus int
	Status     Status
	Message    *string
	Data       *T
}

var _ render.Render = Responser[Empty]{}

// body is the wire shape of an envelope. Message is always present, data is
// omitted when there is no payload.
type body[T any] struct {
	Status  Status  `json:"status"`
	Message *string `json:"message"`
	Data    *T      `json:"data,omitempty"`
}

// New wraps data in an envelope. Without options the envelope is
// (200 OK, success, no message).
func New[T any](data T, opts ...Option) Responser[T] {
	h := newHead(opts)
	return Responser[T]{
		HTTPStatus: h.httpStatus,
		Status:     h.status,
		Message:    h.message,
		Data:       &data,
	}
}

// NewEmpty builds an envelope without payload.
func NewEmpty(opts ...Option) Responser[Empty] {
	h := newHead(opts)
	return Responser[Empty]{
		HTTPStatus: h.httpStatus,
		Status:     h.status,
		Message:    h.message,
	}
}

// MarshalJSON implements json.Marshaler.
func (r Responser[T]) MarshalJSON() ([]byte, error) {
	status := r.Status
	if status == "" {
		status = StatusSuccess
	}
	return json.Marshal(body[T]{Status: status, Message: r.Message, Data: r.Data})
}

// UnmarshalJSON implements json.Unmarshaler. HTTPStatus is left untouched.
func (r *Responser[T]) UnmarshalJSON(b []byte) error {
	var decoded body[T]
	if err := json.Unmarshal(b, &decoded); err != nil {
		return err
	}
	r.Status = decoded.Status
	r.Message = decoded.Message
	r.Data = decoded.Data
	return nil
}

// Render implements render.Render.
func (r Responser[T]) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	payload, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// WriteContentType implements render.Render.
func (r Responser[T]) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = jsonContentType
	}
}

// Respond renders the envelope on c with the envelope's transport status.
func (r Responser[T]) Respond(c *gin.Context) {
	code := r.HTTPStatus
	if code == 0 {
		code = http.StatusOK
	}
	c.Render(code, r)
}

// Handle adapts a handler returning an envelope. A returned error is recorded
// on the context and the chain is aborted so the error middleware answers.
func Handle[T any](fn func(c *gin.Context) (Responser[T], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := fn(c)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		resp.Respond(c)
	}
}
