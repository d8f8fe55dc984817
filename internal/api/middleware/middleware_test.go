package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CorrelationIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		if GetCorrelationID(c) != CorrelationIDFromContext(c.Request.Context()) {
			c.Status(http.StatusInternalServerError)
			return
		}
		*seen = GetCorrelationID(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestCorrelationID_KeepsValidHeader(t *testing.T) {
	var seen string
	r := newTestRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent || seen != "abc-123" {
		t.Fatalf("status=%d id=%q", w.Code, seen)
	}
	if got := w.Header().Get("X-Correlation-ID"); got != "abc-123" {
		t.Fatalf("response header = %q", got)
	}
}

func TestCorrelationID_ReplacesInvalidHeader(t *testing.T) {
	for _, header := range []string{"", "has space", strings.Repeat("x", 200)} {
		var seen string
		r := newTestRouter(&seen)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if seen == "" || seen == header {
			t.Fatalf("header %q was not replaced (got %q)", header, seen)
		}
	}
}
