package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/boipara/bookstore/pkg/errors"
)

// Response is the uniform JSON envelope.
//
//	{"code": 0, "message": "success", "data": {...}}
//
// code 0 means success; anything else is an AppError code.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created answers 201 with the envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes err as an envelope. Client errors carry their own message;
// server errors are logged with the cause and answered with a generic message.
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	message := appErr.Message

	if appErr.IsServerError() {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Int("code", appErr.Code),
			zap.Error(appErr),
		)
		if appErr.Code != apperrors.ErrCodeTimeout {
			message = apperrors.ErrInternal.Message
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus(), Response{
		Code:    appErr.Code,
		Message: message,
	})
}
