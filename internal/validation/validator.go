// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

// Package validation wraps a shared go-playground/validator instance.
//
// Field names in errors come from the `query` or `json` tag when one is
// set, so API callers see the parameter they sent:
//
//	type usageParams struct {
//	    Top int `query:"top" validate:"min=0,max=100"`
//	}
//	if verr := validation.ValidateStruct(&p); verr != nil {
//	    // verr.Error() == "top must be at most 100"
//	}
//
// Custom tags:
//   - increasing: an int slice whose values are strictly increasing
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError describes one failed field.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the field name (tag name when available).
func (e *ValidationError) Field() string { return e.field }

// Tag returns the rule that failed.
func (e *ValidationError) Tag() string { return e.tag }

// Param returns the rule parameter, e.g. "100" for max=100.
func (e *ValidationError) Param() string { return e.param }

// Value returns the rejected value.
func (e *ValidationError) Value() interface{} { return e.value }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects the failed fields of one struct, in
// declaration order.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the failed fields.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i := range ve.errors {
		messages[i] = ve.errors[i].message
	}
	return strings.Join(messages, "; ")
}

// Fields returns the names of every failed field.
func (ve *RequestValidationError) Fields() []string {
	fields := make([]string, len(ve.errors))
	for i := range ve.errors {
		fields[i] = ve.errors[i].field
	}
	return fields
}

// GetValidator returns the shared validator. Safe for concurrent use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(tagName)
		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("increasing", validateIncreasing)
	})
	return validate
}

func tagName(fld reflect.StructField) string {
	for _, key := range []string{"query", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func validateIncreasing(fl validator.FieldLevel) bool {
	v := fl.Field()
	if v.Kind() != reflect.Slice {
		return false
	}
	for i := 1; i < v.Len(); i++ {
		if v.Index(i).Int() <= v.Index(i-1).Int() {
			return false
		}
	}
	return true
}

// ValidateStruct validates s. It returns nil on success.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{{field: "unknown", tag: "unknown", message: err.Error()}},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

var errorMessageTemplates = map[string]string{
	"required":   "%s is required",
	"increasing": "%s must be strictly increasing",
	"number":     "%s must be a number",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice:
		unit = " items"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
