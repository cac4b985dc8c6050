// Package response maps engine results and errors onto the HTTP wire format:
// 200 with the raw payload, 4xx with a {detail: [{loc, msg, type}]} envelope,
// 5xx with {exc_type, exc}.
package response

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"billing-core/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Detail is one entry of the 4xx error envelope.
type Detail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ErrorEnvelope is the 4xx response body.
type ErrorEnvelope struct {
	Detail []Detail `json:"detail"`
}

// FaultEnvelope is the 5xx response body.
type FaultEnvelope struct {
	ExcType string `json:"exc_type"`
	Exc     string `json:"exc"`
}

// OK sends a 200 response with the payload as-is.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error maps err to the wire format. Unrecognized errors become 500 faults.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		c.JSON(appErr.HTTPStatus, FaultEnvelope{
			ExcType: string(appErr.Kind),
			Exc:     appErr.Message,
		})
		return
	}

	if appErr.HTTPStatus == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Basic realm="billing"`)
	}

	c.JSON(appErr.HTTPStatus, ErrorEnvelope{
		Detail: []Detail{{
			Loc:  []string{},
			Msg:  appErr.Message,
			Type: snake(string(appErr.Kind)),
		}},
	})
}

// Fault reports err as a 500 fault regardless of its kind. The webhook
// endpoint uses this: its caller is a payment system, and every failure is a
// fault from its point of view.
func Fault(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err)
	}
	c.JSON(http.StatusInternalServerError, FaultEnvelope{
		ExcType: string(appErr.Kind),
		Exc:     appErr.Message,
	})
}

// ValidationError reports a malformed field at the given location.
func ValidationError(c *gin.Context, loc []string, msg string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{
		Detail: []Detail{{Loc: loc, Msg: msg, Type: "value_error"}},
	})
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
