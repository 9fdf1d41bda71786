package responser

import "net/http"

type head struct {
	httpStatus int
	status     Status
	message    *string
}

// Option overrides one of the envelope defaults.
type Option func(*head)

// WithHTTPStatus sets the transport status. Defaults to 200.
func WithHTTPStatus(code int) Option {
	return func(h *head) {
		h.httpStatus = code
	}
}

// WithStatus sets the semantic status. Defaults to StatusSuccess.
func WithStatus(status Status) Option {
	return func(h *head) {
		h.status = status
	}
}

// WithMessage attaches a human readable message.
func WithMessage(message string) Option {
	return func(h *head) {
		h.message = &message
	}
}

func newHead(opts []Option) head {
	h := head{httpStatus: http.StatusOK, status: StatusSuccess}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}
