package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the uniform envelope every data-bearing endpoint returns.
type JSONResponse struct {
	StatusCode int         `json:"status_code"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		StatusCode: code,
		Success:    code >= 200 && code < 300,
		Message:    message,
		Data:       data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		StatusCode: code,
		Success:    false,
		Message:    err.Error(),
		Data:       nil,
	})
}

// RespondAppError maps a service error onto the envelope. Typed errors keep
// their code and message; anything else is masked behind a generic message
// so provider payloads and stack detail never reach the caller.
func RespondAppError(c *gin.Context, err error) {
	if appErr, ok := AsAppError(err); ok {
		RespondError(c, appErr.Code, errors.New(appErr.Message))
		return
	}
	RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
}
