package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dukerupert/vortex/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Shopper-facing validation messages.
const (
	MsgRequired      = "Please fill in all required fields"
	MsgEmail         = "Please enter a valid email address"
	MsgPhone         = "Please enter a valid phone number"
	MsgPaymentMethod = "Please select a payment method"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

// tagPriority orders checkout failures; the lowest failing tag becomes the
// form summary.
var tagPriority = map[string]int{
	"trimmed_required": 0,
	"shopper_email":    1,
	"shopper_phone":    2,
	"payment_method":   3,
}

// Validator validates shopper input with go-playground/validator and maps
// failures to domain.ValidationError.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator. accepts decides which payment methods the
// payment_method tag allows; nil accepts every known method.
func NewValidator(accepts func(domain.PaymentMethod) bool) *Validator {
	if accepts == nil {
		accepts = domain.PaymentMethod.Known
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("trimmed_required", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("shopper_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("shopper_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		m := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(fl.Field().String())))
		return m.Known() && accepts(m)
	})

	return &Validator{validate: v}
}

// Struct validates any tagged input. Each failing field gets its own message;
// op names the operation on the returned error.
func (v *Validator) Struct(op string, s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.WrapError(err, domain.EINTERNAL, op, "could not validate input")
	}

	ve := &domain.ValidationError{Op: op, Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field()] = fieldMessage(fe)
	}
	return ve
}

// CheckoutForm validates checkout data in priority order: required fields,
// then email, then phone, then payment method. The summary is the highest
// priority failure.
func (v *Validator) CheckoutForm(form domain.CheckoutFormData) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.WrapError(err, domain.EINTERNAL, "checkout.validate", "could not validate input")
	}

	ve := &domain.ValidationError{Op: "checkout.validate", Fields: make(map[string]string, len(fieldErrs))}
	best := len(tagPriority)
	for _, fe := range fieldErrs {
		msg := fieldMessage(fe)
		if fe.Tag() == "trimmed_required" {
			msg = MsgRequired
		}
		ve.Fields[fe.Field()] = msg

		if p, ok := tagPriority[fe.Tag()]; ok && p < best {
			best = p
			ve.Summary = msg
		}
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "trimmed_required":
		return "This field is required"
	case "shopper_email":
		return MsgEmail
	case "shopper_phone":
		return MsgPhone
	case "payment_method":
		return MsgPaymentMethod
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	default:
		return "Invalid value"
	}
}
