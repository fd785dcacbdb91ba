package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s %s", getFieldName(fieldError.Field()), Reason(fieldError)))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

// Reason describes why a single field failed, without the field name.
func Reason(fe validator.FieldError) string {
	isString := fe.Type() != nil && fe.Type().String() == "string"

	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		if isString {
			return fmt.Sprintf("must be exactly %s characters", fe.Param())
		}
		return fmt.Sprintf("must have exactly %s items", fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "printascii":
		return "must contain printable ASCII only"
	default:
		return "is invalid"
	}
}

// FirstReason returns the reason of the first failed field in err, or
// err's message when it is not a validation error.
func FirstReason(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return Reason(validationErrors[0])
	}
	return err.Error()
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"IpfsHash":  "ipfs_hash",
		"Slug":      "slug",
		"Username":  "username",
		"BlogID":    "blog_id",
		"ParentID":  "parent_id",
		"Kind":      "kind",
		"Writers":   "writers",
		"Extension": "extension",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
