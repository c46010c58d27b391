package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hikmahsphere/hikmah-api/internal/models"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the domain rules registered.
// The HTTP binding layer registers the same rules on gin's engine.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		RegisterRules(validate)
	})
	return validate
}

// RegisterRules adds the phone rule and the closed enumerations.
func RegisterRules(v *validator.Validate) {
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	enum := func(tag string, ok func(string) bool) {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
	}
	enum("donor_type", models.IsValidDonorType)
	enum("donation_type", models.IsValidDonationType)
	enum("payment_method", models.IsValidPaymentMethod)
	enum("frequency", models.IsValidFrequency)
	enum("category", models.IsValidCategory)
	enum("recurring_frequency", models.IsValidRecurringFrequency)
	enum("payment_mode", func(s string) bool {
		return s == models.PaymentModeFull || s == models.PaymentModeInstallment
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// validateStruct runs the struct tags and converts failures into a ValidationError.
func validateStruct(s any) *ValidationError {
	verr := &ValidationError{}
	err := Validator().Struct(s)
	if err == nil {
		return verr
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		verr.Add("input", "invalid", err.Error())
		return verr
	}
	for _, fe := range errs {
		verr.Add(fe.Field(), fe.Tag(), ruleMessage(fe))
	}
	return verr
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "phone":
		return "must be 10 to 15 digits with an optional leading +"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "is not an accepted value"
	}
}
