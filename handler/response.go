package handler

import (
	"errors"
	"net/http"

	"leetcoders/model"
	"leetcoders/service"

	"github.com/gin-gonic/gin"
)

func respond(c *gin.Context, status int, payload any) {
	c.JSON(status, model.GenericResponse{
		Success: true,
		Status:  status,
		Payload: payload,
	})
}

// fail renders err into the response envelope. Errors that did not come
// from the service layer are reported as internal errors without details.
func fail(c *gin.Context, err error) {
	info := errorInfo(err)
	c.AbortWithStatusJSON(info.Code, model.GenericResponse{
		Success: false,
		Status:  info.Code,
		Error:   info,
	})
}

func failWith(c *gin.Context, code int, errorType, message string) {
	c.AbortWithStatusJSON(code, model.GenericResponse{
		Success: false,
		Status:  code,
		Error:   &model.ErrorInfo{ErrorType: errorType, Code: code, Message: message},
	})
}

func errorInfo(err error) *model.ErrorInfo {
	var ae *service.AppError
	if errors.As(err, &ae) {
		info := &model.ErrorInfo{ErrorType: ae.Type, Code: ae.Code, Message: ae.Message}
		if ae.Cause != nil && ae.Code < http.StatusInternalServerError {
			info.Details = ae.Cause.Error()
		}
		return info
	}
	return &model.ErrorInfo{
		ErrorType: "INTERNAL_ERROR",
		Code:      http.StatusInternalServerError,
		Message:   "Internal server error",
	}
}
