package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	err := validate.RegisterValidation("expedition_status", validateExpeditionStatus)
	if err != nil {
		return
	}
	err = validate.RegisterValidation("payment_method", validatePaymentMethod)
	if err != nil {
		return
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateExpeditionStatus(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	validStatuses := []string{"created", "in_transit", "sorting", "out_for_delivery", "delivered", "failed"}

	for _, valid := range validStatuses {
		if status == valid {
			return true
		}
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	method := fl.Field().String()
	validMethods := []string{"cash", "card", "bank_transfer", "cheque"}

	for _, valid := range validMethods {
		if method == valid {
			return true
		}
	}
	return false
}
