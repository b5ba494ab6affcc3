// Package form validates form values against a declarative schema and tracks
// the touched/submitted state that decides which errors are shown.
package form

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Values maps field names to their current text.
type Values map[string]string

// Errors maps field names to their first failing message. Valid fields are absent.
type Errors map[string]string

// Rule is one predicate and the message shown when it fails.
type Rule struct {
	Check   func(value string, values Values) bool
	Message string
	// skipEmpty rules only run on non-empty values.
	skipEmpty bool
}

// Field declares one form field and its rules, evaluated in order.
type Field struct {
	Name  string
	Label string
	Rules []Rule
}

// Schema is an ordered list of fields.
type Schema []Field

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Required fails on empty or whitespace-only values.
func Required(name string) Rule {
	return Rule{
		Check:   func(v string, _ Values) bool { return strings.TrimSpace(v) != "" },
		Message: fmt.Sprintf("%s is a required field", name),
	}
}

// Email fails on values that do not look like an email address.
func Email(name string) Rule {
	return Rule{
		Check: func(v string, _ Values) bool {
			return fieldValidator().Var(strings.TrimSpace(v), "email") == nil
		},
		Message:   fmt.Sprintf("%s must be a valid email", name),
		skipEmpty: true,
	}
}

// MinLength fails on values shorter than n characters.
func MinLength(name string, n int) Rule {
	return Rule{
		Check:     func(v string, _ Values) bool { return utf8.RuneCountInString(v) >= n },
		Message:   fmt.Sprintf("%s must be at least %d characters", name, n),
		skipEmpty: true,
	}
}

// Field returns the declaration for name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names lists field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Validate runs every rule over the full value set. It is deterministic and
// reports at most one message per field.
func (s Schema) Validate(values Values) Errors {
	errs := Errors{}
	for _, f := range s {
		v := values[f.Name]
		for _, r := range f.Rules {
			if r.skipEmpty && v == "" {
				continue
			}
			if !r.Check(v, values) {
				errs[f.Name] = r.Message
				break
			}
		}
	}
	return errs
}

// LoginSchema is the schema of the login form.
func LoginSchema() Schema {
	return Schema{
		{Name: "email", Label: "Email Address", Rules: []Rule{Required("email"), Email("email")}},
		{Name: "password", Label: "Password", Rules: []Rule{Required("password"), MinLength("password", 6)}},
	}
}
