package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepdeck/prepdeck-backend/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps service-layer errors onto the wire. Validation
// and not-found travel with their field-level message; upload and store
// failures deliberately surface as a generic message so internals never
// leak, with the detail left to the server log.
func RespondServiceError(c *gin.Context, err error) {
	ae, ok := apierr.From(err)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "internal", errGeneric)
		return
	}
	switch ae.Code {
	case apierr.CodeValidation, apierr.CodeNotFound:
		RespondError(c, ae.Status, ae.Code, ae)
	default:
		RespondError(c, ae.Status, ae.Code, errGeneric)
	}
}

type genericError struct{}

func (genericError) Error() string { return "the request could not be completed" }

var errGeneric = genericError{}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
