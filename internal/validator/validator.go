package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// BookingValidator checks booking requests before they reach the service
type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	v := validator.New()

	// report fields under their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &BookingValidator{validate: v}
}

// ValidateBook trims the request in place and validates it
func (v *BookingValidator) ValidateBook(req *models.BookFlightRequest) error {
	req.PassengerName = strings.TrimSpace(req.PassengerName)
	req.FlightID = strings.TrimSpace(req.FlightID)
	return v.check(req)
}

// ValidateCancel trims the request in place and validates it
func (v *BookingValidator) ValidateCancel(req *models.CancelBookingRequest) error {
	req.PassengerName = strings.TrimSpace(req.PassengerName)
	return v.check(req)
}

func (v *BookingValidator) check(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
