package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/order"
)

// RegisterValidators adds the domain tags to gin's validator. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("bookcondition", validCondition); err != nil {
		return err
	}
	return v.RegisterValidation("paymentmethod", validPaymentMethod)
}

func validCondition(fl validator.FieldLevel) bool {
	return book.Condition(fl.Field().String()).Valid()
}

func validPaymentMethod(fl validator.FieldLevel) bool {
	return order.PaymentMethod(fl.Field().String()).Valid()
}
