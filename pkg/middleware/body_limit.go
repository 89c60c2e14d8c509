package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonforum/forum/pkg/httperror"
	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes caps request bodies at 64 KiB.
const DefaultMaxBodyBytes = 64 << 10

// BodyLimit rejects declared oversize bodies up front and caps the reader
// for the rest; handlers see *http.MaxBytesError when the cap is hit.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil && c.Request.Body != http.NoBody {
			if c.Request.ContentLength > n {
				httperror.Abort(c, httperror.PayloadTooLarge(nil))
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// ParseForm parses urlencoded and multipart bodies, classifying failures.
// Safe to call more than once.
func ParseForm(c *gin.Context) error {
	err := c.Request.ParseForm()
	if err == nil {
		err = c.Request.ParseMultipartForm(1 << 20)
	}
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	if tooLarge(err) {
		return httperror.PayloadTooLarge(err)
	}
	return httperror.InvalidBody(err)
}

// tooLarge reports whether err came from the BodyLimit cap.
func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// AsBodyError classifies a bind/decode failure as 413 or 400.
func AsBodyError(err error) error {
	if tooLarge(err) {
		return httperror.PayloadTooLarge(err)
	}
	return httperror.InvalidBody(err)
}

