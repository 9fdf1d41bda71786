// Package middleware converts errors raised while handling a request into
// enveloped JSON error responses.
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Aidin1998/connectable/pkg/config"
	apperrors "github.com/Aidin1998/connectable/pkg/errors"
	"github.com/Aidin1998/connectable/pkg/metrics"
	"github.com/Aidin1998/connectable/pkg/responser"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

const (
	// GenericReason replaces the message of unclassified errors in release.
	GenericReason = "Something went wrong."

	jsonContentType = "application/json; charset=utf-8"
	textContentType = "text/plain; charset=utf-8"
)

// Classifier resolves an error into the transport status, reason and extra
// headers of its response.
type Classifier func(err error) (status int, reason string, headers http.Header)

// ResponseFunc builds the complete response for an error.
type ResponseFunc func(c *gin.Context, err error) (int, render.Render)

// Option configures the error middleware.
type Option func(*options)

type options struct {
	marshal func(any) ([]byte, error)
	metrics *metrics.Recorder
}

// WithMarshal replaces the JSON encoder used for error bodies.
func WithMarshal(fn func(any) ([]byte, error)) Option {
	return func(o *options) {
		o.marshal = fn
	}
}

// WithMetrics counts every handled error on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = r
	}
}

func newOptions(opts []Option) *options {
	o := &options{marshal: json.Marshal}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Classify returns the default classifier. Abort errors anywhere in the chain
// are answered verbatim; any other error becomes a 500 whose reason is the
// error text in development and GenericReason in release.
func Classify(env config.Environment) Classifier {
	return func(err error) (int, string, http.Header) {
		var abort apperrors.AbortError
		if apperrors.As(err, &abort) {
			return abort.Status(), abort.Reason(), abort.Headers()
		}
		reason := GenericReason
		if !env.IsRelease() {
			reason = err.Error()
		}
		return http.StatusInternalServerError, reason, http.Header{}
	}
}

// Default returns the error middleware with the default classifier. Install it
// first so it wraps every other handler.
func Default(env config.Environment, logger *zap.Logger, opts ...Option) gin.HandlerFunc {
	return CustomClassifier(Classify(env), logger, opts...)
}

// CustomClassifier returns the error middleware using fn to classify errors.
// The response is encoded exactly like Default does.
func CustomClassifier(fn Classifier, logger *zap.Logger, opts ...Option) gin.HandlerFunc {
	o := newOptions(opts)
	return intercept(logger, o, func(c *gin.Context, err error, reported func(int)) {
		status, reason, headers := fn(err)
		status = transportStatus(status)
		reported(status)
		writeError(c, o, status, reason, headers)
	})
}

// CustomResponse returns the error middleware answering with whatever fn
// builds. The error is still logged before the response is written.
func CustomResponse(fn ResponseFunc, logger *zap.Logger, opts ...Option) gin.HandlerFunc {
	o := newOptions(opts)
	return intercept(logger, o, func(c *gin.Context, err error, reported func(int)) {
		status, r := fn(c, err)
		status = transportStatus(status)
		reported(status)
		c.Render(status, r)
	})
}

// respondFunc answers err. It calls reported once the transport status is
// known and before anything is written.
type respondFunc func(c *gin.Context, err error, reported func(status int))

// intercept runs the rest of the chain and hands the last recorded error, or
// a recovered panic, to respond.
func intercept(logger *zap.Logger, o *options, respond respondFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := next(c)
		if err == nil {
			return
		}
		if c.Writer.Written() {
			// Too late to answer, the error is only reported.
			report(logger, o, c, err, c.Writer.Status())
			return
		}
		answer(logger, o, c, err, respond)
	}
}

// next runs the downstream handlers and returns the error to answer.
func next(c *gin.Context) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		c.Abort()
		err = panicError(rec)
	}()

	c.Next()

	if last := c.Errors.Last(); last != nil {
		return last.Err
	}
	return nil
}

// answer runs respond. A panic inside respond falls back to a plain text 500
// and err is still reported exactly once.
func answer(logger *zap.Logger, o *options, c *gin.Context, err error, respond respondFunc) {
	done := false
	reported := func(status int) {
		if done {
			return
		}
		done = true
		report(logger, o, c, err, status)
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		reported(http.StatusInternalServerError)
		if !c.Writer.Written() {
			writeOops(c, http.StatusInternalServerError, panicError(rec))
		}
	}()

	respond(c, err, reported)
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}

func writeError(c *gin.Context, o *options, status int, reason string, headers http.Header) {
	header := c.Writer.Header()
	for key, values := range headers {
		header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	body := responser.NewEmpty(
		responser.WithHTTPStatus(status),
		responser.WithStatus(responser.StatusFromCode(status)),
		responser.WithMessage(reason),
	)
	payload, err := o.marshal(body)
	if err != nil {
		writeOops(c, status, err)
		return
	}
	header.Set("Content-Type", jsonContentType)
	c.Data(status, jsonContentType, payload)
}

// writeOops is the last resort answer when the error response itself failed.
func writeOops(c *gin.Context, status int, err error) {
	c.Writer.Header().Set("Content-Type", textContentType)
	c.Data(status, textContentType, []byte(fmt.Sprintf("Oops: %s", err)))
}

func report(logger *zap.Logger, o *options, c *gin.Context, err error, status int) {
	o.metrics.ObserveError(responser.StatusFromCode(status).String(), status)
	if logger == nil {
		return
	}
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if status < http.StatusInternalServerError {
		logger.Warn("request failed", fields...)
		return
	}
	logger.Error("request failed", fields...)
}

// transportStatus keeps the written status within what net/http accepts.
func transportStatus(status int) int {
	if status < 100 || status > 999 {
		return http.StatusInternalServerError
	}
	return status
}
