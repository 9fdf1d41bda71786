package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_RecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRecorder(prometheus.NewRegistry())

	router := gin.New()
	router.Use(r.Middleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("/items/:id", http.MethodGet, "204")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.HTTPRequestDuration))
}

func TestObserveError(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.ObserveError("failure", 404)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.ErrorsHandled.WithLabelValues("failure", "404")))
}

func TestNilRecorder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var r *Recorder
	r.ObserveError("error", 500)

	router := gin.New()
	router.Use(r.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_UnmatchedPathsShareOneSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRecorder(prometheus.NewRegistry())

	router := gin.New()
	router.Use(r.Middleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 200; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan/%d", i), nil))
	}

	assert.Equal(t, 1, testutil.CollectAndCount(r.HTTPRequestsTotal))
	assert.Equal(t, 200.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues(UnmatchedPath, http.MethodGet, "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.HTTPRequestDuration))
}
