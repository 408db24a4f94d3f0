package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	html2pdf "github.com/alnah/go-html2pdf"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
	validatorErr  error
)

// customRule is a field validation with its English message.
type customRule struct {
	tag     string
	message string
	fn      validator.Func
}

var customRules = []customRule{
	{tag: "viewport", message: "{0} must be WIDTHxHEIGHT in pixels, e.g. 1920x1080", fn: isViewport},
	{tag: "format", message: "{0} must be one of " + formatList(), fn: isFormat},
	{tag: "length", message: "{0} must be a number with an optional px, in, cm, mm or pt unit", fn: isLength},
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, rule := range customRules {
		if err := v.RegisterValidation(rule.tag, rule.fn); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s validation: %w", rule.tag, err)
		}
		if err := v.RegisterTranslation(rule.tag, trans, func(ut ut.Translator) error {
			return ut.Add(rule.tag, rule.message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(fe.Tag(), fieldPath(fe))
			return t
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", rule.tag, err)
		}
	}

	return v, trans, nil
}

// validateStruct runs the shared validator and flattens its errors into one
// ErrConfigInvalid error with one English message per field.
func validateStruct(s any) error {
	validatorOnce.Do(func() {
		validate, translator, validatorErr = newValidator()
	})
	if validatorErr != nil {
		return validatorErr
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Translate(translator)
		// Built-in translations use the bare field name; qualify it.
		if name := fe.Field(); name != "" && !strings.Contains(msg, fieldPath(fe)) {
			msg = strings.Replace(msg, name, fieldPath(fe), 1)
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
}

// fieldPath returns the dotted YAML path of a field, e.g. "pdf.margin.top".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func isViewport(fl validator.FieldLevel) bool {
	_, _, err := html2pdf.ParseViewport(fl.Field().String())
	return err == nil
}

func isFormat(fl validator.FieldLevel) bool {
	want := strings.ToLower(fl.Field().String())
	for _, f := range html2pdf.Formats() {
		if string(f) == want {
			return true
		}
	}
	return false
}

func isLength(fl validator.FieldLevel) bool {
	_, err := html2pdf.Length(fl.Field().String()).Inches()
	return err == nil
}

func formatList() string {
	formats := html2pdf.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
