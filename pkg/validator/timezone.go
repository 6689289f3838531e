package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

func validTimeZone(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return true
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
