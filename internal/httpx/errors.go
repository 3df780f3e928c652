package httpx

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/cod-delivery/internal/apperr"
)

// ErrorResponse documents the error body. Details such as "available" or
// "current_status" are added as extra top-level fields.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error   string `json:"error" example:"Insufficient stock"`
	ErrorAR string `json:"error_ar" example:"المخزون غير كاف"`
	ErrorFR string `json:"error_fr" example:"Stock insuffisant"`
	Code    string `json:"code" example:"insufficient_stock"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindBusinessRule:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody renders the trilingual error payload. Details are echoed as
// top-level fields; they never override the message keys.
func ErrorBody(ae *apperr.Error) gin.H {
	msg := apperr.Lookup(ae.Code)
	body := gin.H{}
	for k, v := range ae.Details {
		body[k] = v
	}
	body["error"] = msg.EN
	body["error_ar"] = msg.AR
	body["error_fr"] = msg.FR
	body["code"] = ae.Code
	return body
}

// WriteError writes err as JSON. Unexpected errors are logged with the
// request id and their cause is not sent to the client.
func WriteError(c *gin.Context, err error) {
	ae := apperr.As(err)
	if ae.Kind == apperr.KindUnexpected {
		log.Printf("[http] rid=%s %s %s internal error: %v", RID(c), c.Request.Method, c.FullPath(), err)
	}
	c.JSON(StatusOf(ae.Kind), ErrorBody(ae))
}

func AbortWithError(c *gin.Context, err error) {
	WriteError(c, err)
	c.Abort()
}

// BindError converts a binding/validation failure into a validation error
// carrying the decoder message.
func BindError(err error) error {
	return apperr.Validation(apperr.CodeInvalidRequest, apperr.Details{"details": err.Error()})
}
