package employee

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateInput is a validated creation payload.
type CreateInput struct {
	Name        string `json:"name" validate:"required"`
	Role        string `json:"role"`
	ClientToken string `json:"clientToken" validate:"omitempty,max=128,excludesall=/"`
}

var createMessages = map[string]string{
	"name":        "name is required",
	"clientToken": "clientToken must be at most 128 characters and must not contain '/'",
}

// ValidateCreate checks that payload is an object with a non blank string
// name. The name is returned trimmed, role and clientToken untouched.
func ValidateCreate(payload interface{}) (CreateInput, error) {
	fields, _ := payload.(map[string]interface{})
	if fields == nil {
		return CreateInput{}, ValidationError(createMessages["name"])
	}

	name, _ := fields["name"].(string)
	input := CreateInput{Name: strings.TrimSpace(name)}

	role, err := optionalString(fields, "role")
	if err != nil {
		return CreateInput{}, err
	}
	if role != nil {
		input.Role = *role
	}

	token, err := optionalString(fields, "clientToken")
	if err != nil {
		return CreateInput{}, err
	}
	if token != nil {
		input.ClientToken = *token
	}

	if err := validate.Struct(input); err != nil {
		return CreateInput{}, translate(err, createMessages)
	}

	return input, nil
}

// ValidateUpdate extracts the string valued name and role from payload. At
// least one must be present and a supplied name must not be blank.
func ValidateUpdate(payload interface{}) (Changes, error) {
	fields, _ := payload.(map[string]interface{})

	var changes Changes
	if name, ok := fields["name"].(string); ok {
		name = strings.TrimSpace(name)
		if err := validate.Var(name, "required"); err != nil {
			return Changes{}, ValidationError("name must not be empty")
		}
		changes.Name = &name
	}

	if role, ok := fields["role"].(string); ok {
		changes.Role = &role
	}

	if changes.Name == nil && changes.Role == nil {
		return Changes{}, ValidationError("no fields to update")
	}

	return changes, nil
}

// optionalString returns the named field when it is a string, nil when it is
// absent or null, and a validation error for any other type.
func optionalString(fields map[string]interface{}, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return nil, nil
	}

	s, ok := raw.(string)
	if !ok {
		return nil, ValidationError(key + " must be a string")
	}

	return &s, nil
}

// translate maps the first validator failure onto its client message.
func translate(err error, messages map[string]string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "failed validating payload")
	}

	field := verrs[0].Field()
	if msg, ok := messages[field]; ok {
		return ValidationError(msg)
	}

	return ValidationError(field + " is invalid")
}
