package middleware

import (
	"net/http"
	"time"

	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"
	"billing-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CtxPrincipal is the gin context key holding the authenticated principal.
const CtxPrincipal = "principal"

// BasicAuth resolves the Authorization header against the merchant and staff
// tables. Requests without credentials pass through unauthenticated; the
// Require* guards decide per route whether that is acceptable. Bad
// credentials always abort.
func BasicAuth(authSvc ports.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Next()
			return
		}

		principal, err := authSvc.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			if !apperror.IsKind(err, apperror.KindUnauthorized) {
				log.Error().Err(err).Msg("authentication failed")
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxPrincipal, principal)
		c.Next()
	}
}

// Principal returns the authenticated principal, if any.
func Principal(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok
}

// RequireUser aborts unauthenticated requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Principal(c); !ok {
			response.Error(c, apperror.Unauthorized())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireMerchant aborts unless the caller is a merchant.
func RequireMerchant() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := Principal(c)
		if !ok || p.Kind != domain.PrincipalMerchant {
			response.Error(c, apperror.Unauthorized())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff aborts unless the caller is staff.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := Principal(c)
		if !ok || !p.IsStaff() {
			response.Error(c, apperror.Unauthorized())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger logs every HTTP request with latency and status.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery converts panics into 500 faults.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.FaultEnvelope{
					ExcType: string(apperror.KindInternal),
					Exc:     "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize limits the request body size. Once the limit is exceeded the
// reader returns an error and the request is rejected with 413.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
