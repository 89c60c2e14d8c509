package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonforum/forum/internal/tokens"
	"github.com/anonforum/forum/pkg/httperror"
	"github.com/anonforum/forum/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	CSRFCookie = "board_csrf"
	CSRFField  = "csrf_token"
	CSRFHeader = "X-CSRF-Token"
	csrfKey    = "csrf_token"
)

var errMissingCSRF = errors.New("csrf token missing")

// CSRFIssue makes sure the browser holds a nonce cookie and exposes a token
// bound to it for the page template (see CSRFToken).
func CSRFIssue(issuer *tokens.CSRF, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce, err := c.Cookie(CSRFCookie)
		if err != nil || nonce == "" {
			if nonce, err = tokens.NewNonce(); err != nil {
				httperror.Abort(c, httperror.Internal(err))
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFCookie, nonce, int(ttl.Seconds()), "/", "", secure, true)
		}
		tok, err := issuer.Generate(nonce)
		if err != nil {
			httperror.Abort(c, httperror.Internal(err))
			return
		}
		c.Set(csrfKey, tok)
		c.Next()
	}
}

// CSRFProtect rejects state-changing requests whose token (form field or
// header) does not verify against the nonce cookie.
func CSRFProtect(issuer *tokens.CSRF) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		tok := c.GetHeader(CSRFHeader)
		if tok == "" {
			if err := ParseForm(c); err != nil {
				httperror.Abort(c, err)
				return
			}
			tok = c.Request.PostFormValue(CSRFField)
		}
		nonce, _ := c.Cookie(CSRFCookie)

		err := errMissingCSRF
		if tok != "" {
			err = issuer.Verify(tok, nonce)
		}
		if err != nil {
			logger.Security(logger.EventCSRFOrForbidden, c.Request.URL.Path, Identity(c))
			httperror.Abort(c, httperror.Forbidden(err))
			return
		}
		c.Next()
	}
}

// CSRFToken returns the token minted by CSRFIssue, or "" when CSRF is off.
func CSRFToken(c *gin.Context) string { return c.GetString(csrfKey) }
