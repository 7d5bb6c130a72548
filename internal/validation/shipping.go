package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dokkan/bookstore/internal/httpx"
)

// Egyptian mobile numbers: optional 20/+20/0 prefix, carrier digit in
// {0,1,2,5}, then eight digits.
var EgyptPhoneRegex = regexp.MustCompile(`^(?:\+?20|0)?1[0125][0-9]{8}$`)

type ShippingDetails struct {
	RecipientName    string `json:"recipientName"    validate:"required,min=5,max=80"`
	Province         string `json:"province"         validate:"required"`
	CityOrDistrict   string `json:"cityOrDistrict"   validate:"required"`
	StreetInfo       string `json:"streetInfo"       validate:"required"`
	Landmark         string `json:"landmark"         validate:"max=500"`
	Phone            string `json:"phone"            validate:"required,egyptphone"`
	PhoneAlternate   string `json:"phoneAlternate"   validate:"omitempty,egyptphone"`
	NotesOrBooksList string `json:"notesOrBooksList" validate:"max=500"`
}

type Customer struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,egyptphone"`
}

type OrderItemInput struct {
	ProductID uint    `json:"productId" validate:"required"`
	Title     string  `json:"title"     validate:"required"`
	Price     float64 `json:"price"     validate:"gte=0"`
	Quantity  uint    `json:"quantity"  validate:"required,gte=1"`
}

type CheckoutPayload struct {
	Items           []OrderItemInput `json:"items"           validate:"required,min=1,dive"`
	Customer        Customer         `json:"customer"        validate:"required"`
	ShippingDetails ShippingDetails  `json:"shippingDetails" validate:"required"`
	Shipping        *float64         `json:"shipping"        validate:"omitempty,gte=0"`
	Currency        string           `json:"currency"`
	IdempotencyKey  string           `json:"idempotencyKey"  validate:"omitempty,max=128"`
}

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("egyptphone", func(fl validator.FieldLevel) bool {
		return EgyptPhoneRegex.MatchString(fl.Field().String())
	})
	return v
}

// Collect maps validator errors to per-field details so a failed payload
// reports every violation, not just the first.
func Collect(err error) []httpx.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []httpx.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]httpx.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, httpx.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return out
}

func fieldPath(namespace string) string {
	// Drop the leading payload type name: "CheckoutPayload.shippingDetails.phone".
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters or items"
	case "max":
		return "must be at most " + fe.Param() + " characters or items"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "egyptphone":
		return "must be a valid Egyptian mobile number (e.g. 01012345678)"
	default:
		return "is invalid"
	}
}
