package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("rental", "/rental")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/rental/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterMiddlewareAppliesToRegisteredRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Touched", "yes")
		c.Next()
	})

	group := NewDomainGroup("rental", "/rental")
	group.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.Register(group).Setup()

	req := httptest.NewRequest("GET", "/api/v1/rental/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "yes", w.Header().Get("X-Touched"))
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("rental", "/rental")
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	group.GET("/a", handler).POST("/a", handler).PUT("/a/:id", handler).DELETE("/a/:id", handler)

	assert.Len(t, group.routes, 4)
	assert.Equal(t, "rental", group.Name())

	r.Register(group).Setup()

	for _, method := range []string{"GET", "POST"} {
		req := httptest.NewRequest(method, "/api/v1/rental/a", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}
