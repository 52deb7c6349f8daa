package catalog

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrValidation = errors.New("validation failed")

// ValidationError carries the first rule a product form broke.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var fieldMessages = map[string]string{
	"Name":        "Product Name is required",
	"Description": "Product Description is required",
	"Price":       fmt.Sprintf("Product Price must be at least %s", MinPrice.String()),
	"Stocks":      "Product Stocks must be greater than zero",
	"Image":       "Product Image is required",
}

// Validator checks product forms before anything is sent upstream.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	// RegisterValidation only fails on an empty tag or a nil func.
	_ = validate.RegisterValidation("decimalgte", decimalGTE)

	return &Validator{validate: validate}
}

func decimalGTE(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	limit, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	return value.GreaterThanOrEqual(limit)
}

// ValidateCreate applies every rule, image included.
func (v *Validator) ValidateCreate(form ProductForm) error {
	if err := v.validateFields(form); err != nil {
		return err
	}
	if !form.HasImage() {
		return &ValidationError{Field: "Image", Message: fieldMessages["Image"]}
	}
	return nil
}

// ValidateUpdate applies the same rules as ValidateCreate except the image,
// which stays optional on edit.
func (v *Validator) ValidateUpdate(form ProductForm) error {
	return v.validateFields(form)
}

func (v *Validator) validateFields(form ProductForm) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("unexpected validation error: %w", err)
	}

	// Fields are visited in declaration order, so the first entry is the
	// first broken rule.
	first := validationErrors[0]
	return &ValidationError{Field: first.StructField(), Message: fieldMessages[first.StructField()]}
}
