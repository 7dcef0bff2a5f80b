package validator

import (
	validation "github.com/go-playground/validator/v10"

	"chatdesk/internal/phone"
)

type Validator struct {
	validate *validation.Validate
}

func New() *Validator {
	v := validation.New()

	// "dialable" accepts empty (phone is optional) but rejects strings
	// that cannot normalize to a WhatsApp-dialable number.
	_ = v.RegisterValidation("dialable", func(fl validation.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return phone.IsValid(value)
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
