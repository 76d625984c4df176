package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest checks the request against the backend's parameter schema.
// The header message is not checked here; callers reject it first.
func ValidateRequest(req GenerationRequest) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeFieldError(fe))
	}
	return errors.New(strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	name := jsonFieldName(fe.Namespace())
	switch fe.Tag() {
	case "gte", "lte":
		return fmt.Sprintf("%s must be %s %s (got %v)", name, boundWord(fe.Tag()), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", name, fe.Param(), fe.Value())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex colour (got %q)", name, fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", name)
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

func boundWord(tag string) string {
	if tag == "gte" {
		return "at least"
	}
	return "at most"
}

var fieldNames = map[string]string{
	"Duration":       "duration",
	"Resolution":     "resolution",
	"Columns":        "columns",
	"NameAlign":      "name_align",
	"TruncateLength": "truncate_length",
	"BGColor":        "bg_color",
	"MessageStyle":   "message_style",
	"PatronStyle":    "patron_style",
	"Font":           "font",
	"Size":           "size",
	"Color":          "color",
	"Align":          "align",
}

// jsonFieldName maps "GenerationRequest.MessageStyle.Size" to "message_style.size".
func jsonFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		if mapped, ok := fieldNames[part]; ok {
			parts[i] = mapped
		}
	}
	return strings.Join(parts, ".")
}
