package employee

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCreate(t *testing.T) {
	cases := []struct {
		payload  interface{}
		expected CreateInput
	}{
		{map[string]interface{}{"name": "Ada"}, CreateInput{Name: "Ada"}},
		{map[string]interface{}{"name": "  Ada Lovelace \n"}, CreateInput{Name: "Ada Lovelace"}},
		{map[string]interface{}{"name": "Ada", "role": " Engineer "}, CreateInput{Name: "Ada", Role: " Engineer "}},
		{map[string]interface{}{"name": "Ada", "role": nil}, CreateInput{Name: "Ada"}},
		{map[string]interface{}{"name": "Ada", "clientToken": "tok-1"}, CreateInput{Name: "Ada", ClientToken: "tok-1"}},
		{map[string]interface{}{"name": "Ada", "clientToken": ""}, CreateInput{Name: "Ada"}},
	}

	for _, c := range cases {
		actual, err := ValidateCreate(c.payload)

		assert.NoError(t, err)
		assert.Equal(t, c.expected, actual)
	}
}

func TestValidateCreate_error(t *testing.T) {
	cases := []struct {
		payload interface{}
		message string
	}{
		{nil, "name is required"},
		{"Ada", "name is required"},
		{[]interface{}{"Ada"}, "name is required"},
		{map[string]interface{}{}, "name is required"},
		{map[string]interface{}{"name": ""}, "name is required"},
		{map[string]interface{}{"name": "   \t"}, "name is required"},
		{map[string]interface{}{"name": float64(42)}, "name is required"},
		{map[string]interface{}{"role": "Engineer"}, "name is required"},
		{map[string]interface{}{"name": "Ada", "role": float64(1)}, "role must be a string"},
		{map[string]interface{}{"name": "Ada", "clientToken": true}, "clientToken must be a string"},
		{map[string]interface{}{"name": "Ada", "clientToken": "a/b"}, "clientToken must be at most 128 characters and must not contain '/'"},
		{map[string]interface{}{"name": "Ada", "clientToken": strings.Repeat("x", 129)}, "clientToken must be at most 128 characters and must not contain '/'"},
	}

	for _, c := range cases {
		_, err := ValidateCreate(c.payload)

		if assert.Error(t, err, "%v", c.payload) {
			assert.True(t, IsKind(err, KindValidation))
			assert.Equal(t, c.message, err.(*Error).Message)
		}
	}
}

func TestValidateUpdate(t *testing.T) {
	name := "Ada"
	role := "Manager"
	empty := ""

	cases := []struct {
		payload  interface{}
		expected Changes
	}{
		{map[string]interface{}{"name": " Ada "}, Changes{Name: &name}},
		{map[string]interface{}{"role": "Manager"}, Changes{Role: &role}},
		{map[string]interface{}{"role": ""}, Changes{Role: &empty}},
		{map[string]interface{}{"name": "Ada", "role": "Manager"}, Changes{Name: &name, Role: &role}},
		{map[string]interface{}{"name": float64(1), "role": "Manager"}, Changes{Role: &role}},
	}

	for _, c := range cases {
		actual, err := ValidateUpdate(c.payload)

		assert.NoError(t, err)
		assert.Equal(t, c.expected, actual)
	}
}

func TestValidateUpdate_error(t *testing.T) {
	cases := []struct {
		payload interface{}
		message string
	}{
		{nil, "no fields to update"},
		{map[string]interface{}{}, "no fields to update"},
		{map[string]interface{}{"name": nil, "role": float64(3)}, "no fields to update"},
		{map[string]interface{}{"title": "Boss"}, "no fields to update"},
		{map[string]interface{}{"name": "  "}, "name must not be empty"},
	}

	for _, c := range cases {
		_, err := ValidateUpdate(c.payload)

		if assert.Error(t, err, "%v", c.payload) {
			assert.True(t, IsKind(err, KindValidation))
			assert.Equal(t, c.message, err.(*Error).Message)
		}
	}
}
