package core

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// MinClass & MaxClass bound the class numbers that own a tasks sheet.
const (
	MinClass = 1
	MaxClass = 10
)

var (
	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "only alphanumeric characters and underscores are allowed"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

	pinCodeTag   = "pincode"
	pinCodeText  = "PIN code must be exactly 6 digits"
	pinCodeRegex = regexp.MustCompile(`^\d{6}$`)

	classIDTag  = "classid"
	classIDText = "class must be a number between 1 and 10"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredIfTag   = "required_if"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(alphaNumUnderTag, alphaNumUnderValidation)
	RegisterCustomTranslation(validate, translator, alphaNumUnderTag, alphaNumUnderText)

	_ = validate.RegisterValidation(pinCodeTag, pinCodeValidation)
	RegisterCustomTranslation(validate, translator, pinCodeTag, pinCodeText)

	_ = validate.RegisterValidation(classIDTag, classIDValidation)
	RegisterCustomTranslation(validate, translator, classIDTag, classIDText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredIfTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// IsValidClass reports whether class is a class number owning a tasks sheet.
func IsValidClass(class string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(class))
	return err == nil && n >= MinClass && n <= MaxClass
}

// Custom Global Validators

// alphaNumUnderValidation only allows alphanumeric characters and underscores.
func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}

// pinCodeValidation only allows 6-digit postal codes.
func pinCodeValidation(fl validator.FieldLevel) bool {
	return pinCodeRegex.MatchString(fl.Field().String())
}

func classIDValidation(fl validator.FieldLevel) bool {
	return IsValidClass(fl.Field().String())
}
