// Package router maps URL paths to views and keeps a navigation history.
package router

import (
	"net/url"
	"strings"
)

// View is the top-level page a route resolves to.
type View int

const (
	ViewNotFound View = iota
	ViewLogin
	ViewProductList
	ViewProductDetail
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewProductList:
		return "product_list"
	case ViewProductDetail:
		return "product_detail"
	default:
		return "not_found"
	}
}

// Paths used across the app.
const (
	PathLogin    = "/login"
	PathProducts = "/products"
	PathNotFound = "/not-found"
)

// Route is a matched path.
type Route struct {
	Path   string
	View   View
	Params map[string]string
}

// ProductID returns the :id parameter of a detail route.
func (r Route) ProductID() string {
	return r.Params["id"]
}

// ProductPath builds the detail path for id.
func ProductPath(id string) string {
	return PathProducts + "/" + url.PathEscape(id)
}

// Match resolves path. It is the only place routes are decided, so a direct
// load and an in-app navigation to the same path always agree.
func Match(path string) Route {
	if u, err := url.Parse(path); err == nil && u.Path != "" {
		path = u.EscapedPath()
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	switch {
	case path == PathLogin:
		return Route{Path: path, View: ViewLogin}
	case path == PathProducts:
		return Route{Path: path, View: ViewProductList}
	case strings.HasPrefix(path, PathProducts+"/"):
		raw := strings.TrimPrefix(path, PathProducts+"/")
		if raw == "" || strings.Contains(raw, "/") {
			break
		}
		id, err := url.PathUnescape(raw)
		if err != nil || id == "" {
			break
		}
		return Route{Path: path, View: ViewProductDetail, Params: map[string]string{"id": id}}
	}
	return Route{Path: path, View: ViewNotFound}
}
