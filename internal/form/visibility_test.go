package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordToggle(t *testing.T) {
	p := &PasswordInput{ID: "password", Label: "Password", Value: "bar"}

	assert.Equal(t, Masked, p.Visibility)
	assert.Equal(t, "Show", p.Visibility.Label())
	assert.Equal(t, "password", p.Visibility.InputType())

	p.Toggle()
	assert.Equal(t, Plain, p.Visibility)
	assert.Equal(t, "Hide", p.Visibility.Label())
	assert.Equal(t, "text", p.Visibility.InputType())

	p.Toggle()
	assert.Equal(t, Masked, p.Visibility)
	assert.Equal(t, "bar", p.Value)
}

func TestParseVisibility(t *testing.T) {
	assert.Equal(t, Plain, ParseVisibility("plain"))
	assert.Equal(t, Masked, ParseVisibility("masked"))
	assert.Equal(t, Masked, ParseVisibility(""))
	assert.Equal(t, "plain", Plain.String())
}
