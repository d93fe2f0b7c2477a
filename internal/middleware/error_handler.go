package middleware

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxLoggedBody caps how much of a request body gets captured for the
// error log.
const maxLoggedBody = 8 << 10

// ErrorHandler is the terminal middleware: it recovers panics, picks up
// errors attached to the context, logs the full request context and
// answers with the failure message. The response keeps whatever status
// was already set, falling back to 500. Stack traces are suppressed in
// production.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := captureBody(c)

		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				respond(c, err, string(debug.Stack()), body, production)
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respond(c, c.Errors.Last().Err, "", body, production)
		}
	}
}

func respond(c *gin.Context, err error, stack, body string, production bool) {
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	slog.Error(fmt.Sprintf("[%d] %s", status, err),
		"method", c.Request.Method,
		"url", c.Request.URL.String(),
		"query", c.Request.URL.RawQuery,
		"params", params,
		"headers", c.Request.Header,
		"body", body,
		"stack", stack,
	)

	resp := gin.H{"message": err.Error()}
	if production {
		resp["stack"] = "🥞"
	} else if stack != "" {
		resp["stack"] = stack
	}
	c.AbortWithStatusJSON(status, resp)
}

// captureBody buffers a small JSON body so it can appear in error logs;
// uploads and other payloads pass through untouched.
func captureBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBody))
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), c.Request.Body))
	return string(data)
}
