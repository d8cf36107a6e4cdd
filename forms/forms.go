// Package forms validates the lead capture form before it reaches the
// database. Every rule is a go-playground/validator tag so the same checks
// run on decoded request bodies and on plain strings.
package forms

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

const (
	minNameLength    = 2
	minMessageLength = 10
)

// LeadForm is the estimate request as typed by the visitor. Empty optional
// fields count as not supplied.
type LeadForm struct {
	FirstName string `json:"first_name" validate:"person_name"`
	LastName  string `json:"last_name" validate:"person_name"`
	Email     string `json:"email" validate:"site_email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,us_phone"`
	Zip       string `json:"zip,omitempty" validate:"omitempty,us_zip"`
	Message   string `json:"message,omitempty" validate:"omitempty,lead_message"`
}

// Result is the outcome of ValidateLeadForm; Errors is keyed by JSON field name.
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

var messages = map[string]string{
	"first_name": "First name is required and must be at least 2 characters",
	"last_name":  "Last name is required and must be at least 2 characters",
	"email":      "Please enter a valid email address",
	"phone":      "Please enter a valid phone number",
	"zip":        "Please enter a valid ZIP code",
	"message":    "Message must be at least 10 characters",
}

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator with the lead form tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		mustRegister(v, "person_name", func(fl validator.FieldLevel) bool { return ValidateName(fl.Field().String()) })
		mustRegister(v, "site_email", func(fl validator.FieldLevel) bool { return ValidateEmail(fl.Field().String()) })
		mustRegister(v, "us_phone", func(fl validator.FieldLevel) bool { return ValidatePhone(fl.Field().String()) })
		mustRegister(v, "us_zip", func(fl validator.FieldLevel) bool { return ValidateZip(fl.Field().String()) })
		mustRegister(v, "lead_message", func(fl validator.FieldLevel) bool { return ValidateMessage(fl.Field().String()) })
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone accepts 10-digit North American numbers with optional
// parentheses around the area code and -, . or space separators.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateZip accepts 5-digit and ZIP+4 codes.
func ValidateZip(zip string) bool {
	return zipPattern.MatchString(zip)
}

func ValidateName(name string) bool {
	return len([]rune(strings.TrimSpace(name))) >= minNameLength
}

func ValidateMessage(message string) bool {
	return len([]rune(strings.TrimSpace(message))) >= minMessageLength
}

// ValidateLeadForm checks every field of form and reports all failures at once.
func ValidateLeadForm(form LeadForm) Result {
	result := Result{Errors: map[string]string{}}

	if err := Validator().Struct(form); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			// only returned for invalid arguments, which a LeadForm value never is
			result.Errors["form"] = err.Error()
		}
		for _, fe := range validationErrs {
			result.Errors[fe.Field()] = messageFor(fe.Field())
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func messageFor(field string) string {
	if msg, ok := messages[field]; ok {
		return msg
	}
	return "Invalid value"
}
