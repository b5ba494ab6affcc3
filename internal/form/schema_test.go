package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginSchemaValidate(t *testing.T) {
	schema := LoginSchema()

	tests := []struct {
		name   string
		values Values
		want   Errors
	}{
		{
			name:   "empty",
			values: Values{},
			want: Errors{
				"email":    "email is a required field",
				"password": "password is a required field",
			},
		},
		{
			name:   "whitespace email",
			values: Values{"email": "   ", "password": "123456"},
			want:   Errors{"email": "email is a required field"},
		},
		{
			name:   "bad email short password",
			values: Values{"email": "a", "password": "b"},
			want: Errors{
				"email":    "email must be a valid email",
				"password": "password must be at least 6 characters",
			},
		},
		{
			name:   "valid",
			values: Values{"email": "test@example.com", "password": "123456"},
			want:   Errors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.Validate(tt.values))
		})
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	schema := LoginSchema()
	values := Values{"email": "nope", "password": ""}
	assert.Equal(t, schema.Validate(values), schema.Validate(values))
}

func TestCrossFieldRule(t *testing.T) {
	schema := Schema{
		{Name: "password", Rules: []Rule{Required("password")}},
		{Name: "confirm", Rules: []Rule{{
			Check:   func(v string, all Values) bool { return v == all["password"] },
			Message: "confirm must match password",
		}}},
	}

	errs := schema.Validate(Values{"password": "secret1", "confirm": "secret2"})
	assert.Equal(t, Errors{"confirm": "confirm must match password"}, errs)
}
