// Package handler adapts HTTP requests to application use cases: bind and validate
// the request, call the use case, write the envelope. No business rules live here.
package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/boipara/bookstore/pkg/errors"
	"github.com/boipara/bookstore/pkg/response"
)

// bindError answers a failed ShouldBind*: 40000 for rule violations, 40001 for
// bodies that do not parse.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		response.Error(c, apperrors.WithMessage(apperrors.ErrValidation, describe(verrs[0])))
		return
	}
	response.Error(c, apperrors.WithMessage(apperrors.ErrBindError, "malformed request: "+err.Error()))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "max", "oneof":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	case "bookcondition":
		return fmt.Sprintf("%s must be one of new, like-new, used", fe.Field())
	case "paymentmethod":
		return fmt.Sprintf("%s must be one of cod, bkash, nagad, card", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// idParam parses a positive numeric path parameter, answering 400 when it is not one.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.WithMessage(apperrors.ErrValidation, "invalid "+name))
		return 0, false
	}
	return uint(id), true
}
