package views

import (
	"context"
	"sync"

	"storefront/internal/router"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
)

// NotFoundTitle is the heading of the not-found page.
const NotFoundTitle = "Page Not Found"

// Page is the render model of the active view. Exactly one of List, Detail
// and Login is set, or none for the not-found page.
type Page struct {
	Route  router.Route
	List   *ListModel
	Detail *DetailModel
	Login  *LoginModel
}

// Deps are the collaborators shared by every App.
type Deps struct {
	Catalog   Catalog
	Submitter Submitter
}

// App is one browsing session: a history and the views it dispatches to.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	history *router.History
	list    *ListView
	detail  *DetailView
	login   *LoginView

	mu     sync.Mutex
	active router.View
}

// Open starts a session with a direct load of path. Close releases it.
func Open(ctx context.Context, deps Deps, path string) *App {
	ctx, cancel := context.WithCancel(ctx)
	a := &App{ctx: ctx, cancel: cancel, active: router.ViewNotFound}
	a.list = newListView(ctx, deps.Catalog, a)
	a.detail = newDetailView(ctx, deps.Catalog, a)
	a.login = newLoginView(deps.Submitter)

	a.history = router.NewHistory(path)
	a.history.Listen(a.activate)
	a.activate(a.history.Current())
	return a
}

// GoTo pushes path and activates its view.
func (a *App) GoTo(ctx context.Context, path string) router.Route {
	_, span := util.StartSpan(ctx, "App.GoTo")
	defer span.End()
	span.SetAttributes(attribute.String("route.path", path))

	return a.history.GoTo(path)
}

// GoBack returns to the previous route; false at the first entry.
func (a *App) GoBack(ctx context.Context) (router.Route, bool) {
	_, span := util.StartSpan(ctx, "App.GoBack")
	defer span.End()

	return a.history.GoBack()
}

// Current returns the active route.
func (a *App) Current() router.Route {
	return a.history.Current()
}

// List returns the product list view.
func (a *App) List() *ListView { return a.list }

// Detail returns the product detail view.
func (a *App) Detail() *DetailView { return a.detail }

// Login returns the login view.
func (a *App) Login() *LoginView { return a.login }

// Settle waits until the active view has its data, following any navigation
// that a resolution triggers.
func (a *App) Settle(ctx context.Context) error {
	for {
		a.mu.Lock()
		view := a.active
		a.mu.Unlock()

		var err error
		switch view {
		case router.ViewProductList:
			err = a.list.Settle(ctx)
		case router.ViewProductDetail:
			err = a.detail.Settle(ctx)
		}
		if err != nil {
			return err
		}

		a.mu.Lock()
		same := a.active == view
		a.mu.Unlock()
		if same {
			return nil
		}
	}
}

// Page renders the active view.
func (a *App) Page() Page {
	route := a.history.Current()
	p := Page{Route: route}
	switch route.View {
	case router.ViewProductList:
		m := a.list.Model()
		p.List = &m
	case router.ViewProductDetail:
		m := a.detail.Model()
		p.Detail = &m
	case router.ViewLogin:
		m := a.login.Model()
		p.Login = &m
	}
	return p
}

// Close unmounts every view and stops in-flight loads from being applied.
func (a *App) Close() {
	a.list.Unmount()
	a.detail.Unmount()
	a.cancel()
}

func (a *App) activate(r router.Route) {
	a.mu.Lock()
	prev := a.active
	a.active = r.View
	a.mu.Unlock()

	if prev != r.View {
		switch prev {
		case router.ViewProductList:
			a.list.Unmount()
		case router.ViewProductDetail:
			a.detail.Unmount()
		case router.ViewLogin:
			a.login.Reset()
		}
	}

	switch r.View {
	case router.ViewProductList:
		a.list.Mount()
	case router.ViewProductDetail:
		a.detail.SetID(r.ProductID())
	}
}
