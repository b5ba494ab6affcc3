package form

// Visibility is the masked/plain state of a password field.
type Visibility int

const (
	Masked Visibility = iota
	Plain
)

// ParseVisibility maps "plain" to Plain and anything else to Masked.
func ParseVisibility(s string) Visibility {
	if s == "plain" {
		return Plain
	}
	return Masked
}

// Toggle returns the other state.
func (v Visibility) Toggle() Visibility {
	if v == Plain {
		return Masked
	}
	return Plain
}

// Label is the toggle button text.
func (v Visibility) Label() string {
	if v == Plain {
		return "Hide"
	}
	return "Show"
}

// InputType is the HTML input type for the field.
func (v Visibility) InputType() string {
	if v == Plain {
		return "text"
	}
	return "password"
}

func (v Visibility) String() string {
	if v == Plain {
		return "plain"
	}
	return "masked"
}

// PasswordInput is a labeled text field with a visibility toggle. Toggling
// never touches Value.
type PasswordInput struct {
	ID         string
	Label      string
	Value      string
	Visibility Visibility
}

// Toggle flips the visibility.
func (p *PasswordInput) Toggle() {
	p.Visibility = p.Visibility.Toggle()
}
