package responser_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aidin1998/connectable/pkg/responser"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID int `json:"id"`
}

func (w widget) ToDTO(opts ...responser.Option) responser.Responser[widget] {
	return responser.New(w, opts...)
}

var _ responser.Connectable[widget] = widget{}

func respond[T any](t *testing.T, r responser.Responser[T]) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Respond(c)
	return w
}

func TestConnectableDefault(t *testing.T) {
	w := respond(t, widget{ID: 1}.ToDTO())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"status":"success","message":null,"data":{"id":1}}`, w.Body.String())
}

func TestEmptyPayload(t *testing.T) {
	w := respond(t, responser.NewEmpty())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"success","message":null}`, w.Body.String())

	w = respond(t, responser.Connector{}.ToDTO(responser.WithMessage("pong")))
	assert.Equal(t, `{"status":"success","message":"pong"}`, w.Body.String())
}

func TestOptionsOverrideDefaults(t *testing.T) {
	r := widget{ID: 7}.ToDTO(
		responser.WithHTTPStatus(http.StatusAccepted),
		responser.WithStatus(responser.StatusInformation),
		responser.WithMessage("queued"),
	)
	w := respond(t, r)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, `{"status":"information","message":"queued","data":{"id":7}}`, w.Body.String())
}

func TestTransportStatusNotInBody(t *testing.T) {
	w := respond(t, widget{ID: 1}.ToDTO(responser.WithHTTPStatus(http.StatusCreated)))

	assert.Equal(t, http.StatusCreated, w.Code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Len(t, raw, 3)
	assert.Contains(t, raw, "status")
	assert.Contains(t, raw, "message")
	assert.Contains(t, raw, "data")
}

func TestZeroValueDefaults(t *testing.T) {
	w := respond(t, responser.Responser[widget]{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"success","message":null}`, w.Body.String())
}

func TestRoundTrip(t *testing.T) {
	original := widget{ID: 42}.ToDTO(
		responser.WithHTTPStatus(http.StatusTeapot),
		responser.WithStatus(responser.StatusFailure),
		responser.WithMessage("short and stout"),
	)
	b, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded responser.Responser[widget]
	require.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, 0, decoded.HTTPStatus)
	assert.Equal(t, responser.StatusFailure, decoded.Status)
	require.NotNil(t, decoded.Message)
	assert.Equal(t, "short and stout", *decoded.Message)
	require.NotNil(t, decoded.Data)
	assert.Equal(t, widget{ID: 42}, *decoded.Data)
}

func TestEncodingIsStable(t *testing.T) {
	r := widget{ID: 3}.ToDTO(responser.WithMessage("same"))
	first, err := json.Marshal(r)
	require.NoError(t, err)
	second, err := json.Marshal(r)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, `{"status":"success","message":"same","data":{"id":3}}`, string(first))
}

func TestHandle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	failure := errors.New("nope")

	router := gin.New()
	router.GET("/ok", responser.Handle(func(c *gin.Context) (responser.Responser[widget], error) {
		return widget{ID: 9}.ToDTO(), nil
	}))
	router.GET("/fail", func(c *gin.Context) {
		c.Next()
		require.Len(t, c.Errors, 1)
		assert.Same(t, failure, c.Errors.Last().Err)
		assert.True(t, c.IsAborted())
		c.String(http.StatusInternalServerError, "handled")
	}, responser.Handle(func(c *gin.Context) (responser.Responser[widget], error) {
		return responser.Responser[widget]{}, failure
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"success","message":null,"data":{"id":9}}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "handled", w.Body.String())
}
