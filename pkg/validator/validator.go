package validator

import (
	"clinic-slot-engine/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator registers the clinic tags: clock (HH:MM, 24:00 allowed) and
// isodate (YYYY-MM-DD).
func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("clock", validateClock)
	_ = v.RegisterValidation("isodate", validateISODate)
	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "min":
				errors[field] = field + " must be at least " + e.Param()
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "clock":
				errors[field] = field + " must be a time in HH:MM format"
			case "isodate":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "uuid":
				errors[field] = field + " must be a valid UUID"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := entity.ParseClock(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := entity.ParseDate(fl.Field().String())
	return err == nil
}
