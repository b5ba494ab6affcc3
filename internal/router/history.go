package router

import "sync"

// Listener is notified after every route change.
type Listener func(Route)

// History is a stack of visited routes; the top entry is the active route.
type History struct {
	mu        sync.Mutex
	entries   []Route
	listeners []Listener
}

// NewHistory starts a history at path, as a direct load would.
func NewHistory(path string) *History {
	return &History{entries: []Route{Match(path)}}
}

// Listen registers l for subsequent changes.
func (h *History) Listen(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

// Current returns the active route.
func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// GoTo pushes path.
func (h *History) GoTo(path string) Route {
	r := Match(path)
	h.mu.Lock()
	h.entries = append(h.entries, r)
	h.mu.Unlock()
	h.notify(r)
	return r
}

// Replace swaps the active entry for path.
func (h *History) Replace(path string) Route {
	r := Match(path)
	h.mu.Lock()
	h.entries[len(h.entries)-1] = r
	h.mu.Unlock()
	h.notify(r)
	return r
}

// GoBack pops the active entry and restores the previous one. At the first
// entry it does nothing and returns false.
func (h *History) GoBack() (Route, bool) {
	h.mu.Lock()
	if len(h.entries) < 2 {
		r := h.entries[0]
		h.mu.Unlock()
		return r, false
	}
	h.entries = h.entries[:len(h.entries)-1]
	r := h.entries[len(h.entries)-1]
	h.mu.Unlock()
	h.notify(r)
	return r, true
}

func (h *History) notify(r Route) {
	h.mu.Lock()
	listeners := append([]Listener(nil), h.listeners...)
	h.mu.Unlock()
	for _, l := range listeners {
		l(r)
	}
}
