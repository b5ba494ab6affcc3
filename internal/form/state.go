package form

// Phase is the submit state machine position.
type Phase int

const (
	Idle Phase = iota
	Validating
)

// Outcome is the result of one submit attempt.
type Outcome int

const (
	Rejected Outcome = iota
	Accepted
)

func (o Outcome) String() string {
	if o == Accepted {
		return "accepted"
	}
	return "rejected"
}

// State holds a form's values and visibility bookkeeping. Errors are only
// recomputed on blur and on submit; Change never validates.
type State struct {
	schema    Schema
	values    Values
	touched   map[string]bool
	errors    Errors
	submitted bool
	phase     Phase
}

// NewState creates an empty form for schema.
func NewState(schema Schema) *State {
	values := Values{}
	for _, name := range schema.Names() {
		values[name] = ""
	}
	return &State{
		schema:  schema,
		values:  values,
		touched: map[string]bool{},
		errors:  Errors{},
	}
}

// Restore rebuilds a form from previously rendered state. Errors are
// recomputed only if something was touched or submitted, matching what the
// user last saw.
func Restore(schema Schema, values Values, touched []string, submitted bool) *State {
	s := NewState(schema)
	for name, v := range values {
		if _, ok := schema.Field(name); ok {
			s.values[name] = v
		}
	}
	for _, name := range touched {
		if _, ok := schema.Field(name); ok {
			s.touched[name] = true
		}
	}
	s.submitted = submitted
	if submitted || len(s.touched) > 0 {
		s.errors = schema.Validate(s.values)
	}
	return s
}

// Change records a new value for field without validating.
func (s *State) Change(field, value string) {
	if _, ok := s.schema.Field(field); !ok {
		return
	}
	s.values[field] = value
}

// Blur marks field touched and revalidates the whole form.
func (s *State) Blur(field string) {
	if _, ok := s.schema.Field(field); !ok {
		return
	}
	s.touched[field] = true
	s.errors = s.schema.Validate(s.values)
}

// Submit runs Idle -> Validating -> Idle. Every field becomes touched so all
// violations render; the outcome is Accepted only when no field fails.
func (s *State) Submit() Outcome {
	s.phase = Validating
	defer func() { s.phase = Idle }()

	s.submitted = true
	for _, name := range s.schema.Names() {
		s.touched[name] = true
	}
	s.errors = s.schema.Validate(s.values)
	if len(s.errors) > 0 {
		return Rejected
	}
	return Accepted
}

// Reset clears values, touched flags and errors.
func (s *State) Reset() {
	*s = *NewState(s.schema)
}

// Value returns the current value of field.
func (s *State) Value(field string) string {
	return s.values[field]
}

// Values returns a copy of all values.
func (s *State) Values() Values {
	out := make(Values, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Touched reports whether field has been blurred or the form submitted.
func (s *State) Touched(field string) bool {
	return s.touched[field]
}

// TouchedFields lists touched fields in schema order.
func (s *State) TouchedFields() []string {
	var out []string
	for _, name := range s.schema.Names() {
		if s.touched[name] {
			out = append(out, name)
		}
	}
	return out
}

// Submitted reports whether a submit was attempted.
func (s *State) Submitted() bool {
	return s.submitted
}

// Error returns the last computed error of field, shown or not.
func (s *State) Error(field string) string {
	return s.errors[field]
}

// VisibleError returns the error to display for field: only once the field
// is touched or a submit was attempted.
func (s *State) VisibleError(field string) string {
	if !s.touched[field] && !s.submitted {
		return ""
	}
	return s.errors[field]
}

// Valid reports whether the last computed errors were empty.
func (s *State) Valid() bool {
	return len(s.errors) == 0
}
