package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("insurance_tier", validateInsuranceTier)
	validate.RegisterValidation("payment_method", validatePaymentMethod)
}

// Common validation errors
var (
	ErrInvalidObjectID      = errors.New("invalid object ID format")
	ErrInvalidInsuranceTier = errors.New("invalid insurance tier")
	ErrInvalidDateRange     = errors.New("invalid date range")
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ToMap flattens the errors into the field->message shape the response
// envelope expects.
func (v ValidationErrors) ToMap() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Field] = err.Message
	}
	return m
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "object_id":
		return ErrInvalidObjectID.Error()
	case "insurance_tier":
		return ErrInvalidInsuranceTier.Error()
	case "payment_method":
		return "invalid payment method"
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", err.Field(), err.Tag())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	if id, ok := fl.Field().Interface().(primitive.ObjectID); ok {
		return !id.IsZero()
	}
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

func validateInsuranceTier(fl validator.FieldLevel) bool {
	return models.InsuranceTier(fl.Field().String()).IsValid()
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch models.PaymentMethod(fl.Field().String()) {
	case models.PaymentMethodCard, models.PaymentMethodTransfer, models.PaymentMethodCash:
		return true
	}
	return false
}
