package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError locates a single problem in a request, e.g. Loc ["body", "title"].
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is returned when a request is structurally invalid.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, strings.Join(fe.Loc, ".")+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Detail is the response body payload for a 422.
func (e *ValidationError) Detail() []FieldError {
	return e.Errors
}

func newError(errs ...FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

func bodyField(field, msg, typ string) FieldError {
	loc := []string{"body"}
	if field != "" {
		loc = append(loc, strings.Split(field, ".")...)
	}
	return FieldError{Loc: loc, Msg: msg, Type: typ}
}

// fromDecodeError converts an encoding/json error into a field error.
func fromDecodeError(field string, err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if field == "" {
			field = typeErr.Field
		}
		return bodyField(field, fmt.Sprintf("Input should be a valid %s", jsonKind(typeErr.Type.Kind().String())), "type_error")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return bodyField(field, fmt.Sprintf("JSON decode error at offset %d", syntaxErr.Offset), "json_invalid")
	}

	return bodyField(field, "JSON decode error: "+err.Error(), "json_invalid")
}

func fromValidatorErrors(errs validator.ValidationErrors) *ValidationError {
	out := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		// namespace is "CreateInput.title"
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		switch fe.Tag() {
		case "required":
			out = append(out, bodyField(ns, "Field required", "missing"))
		default:
			out = append(out, bodyField(ns, fmt.Sprintf("failed on the %q rule", fe.Tag()), fe.Tag()))
		}
	}
	return newError(out...)
}

func jsonKind(kind string) string {
	switch kind {
	case "bool":
		return "boolean"
	case "int", "int8", "int16", "int32", "int64":
		return "integer"
	case "map", "struct":
		return "object"
	default:
		return kind
	}
}
