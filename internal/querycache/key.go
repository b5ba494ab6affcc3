package querycache

import (
	"net/url"
	"strings"
)

// Key identifies one cached query: the operation name plus its parameters.
type Key struct {
	Op     string
	params string
}

// NewKey builds a key for op called with params.
func NewKey(op string, params ...string) Key {
	escaped := make([]string, len(params))
	for i, p := range params {
		escaped[i] = url.QueryEscape(p)
	}
	return Key{Op: op, params: strings.Join(escaped, ",")}
}

// Params returns the parameters the key was built with.
func (k Key) Params() []string {
	if k.params == "" {
		return nil
	}
	parts := strings.Split(k.params, ",")
	for i, p := range parts {
		if v, err := url.QueryUnescape(p); err == nil {
			parts[i] = v
		}
	}
	return parts
}

// String renders the canonical form, e.g. getProductById(SBX-1234).
func (k Key) String() string {
	return k.Op + "(" + k.params + ")"
}
