package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/form"
	"storefront/internal/router"
	"storefront/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pageData is the template context of every page.
type pageData struct {
	Title       string
	Loading     bool
	LoadingText string
	Page        views.Page
}

// page serves every GET navigation. The path goes through router.Match, the
// same resolution in-app navigation uses.
func (h *Handler) page(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	path := c.Request.URL.EscapedPath()
	requested := router.Match(path)

	app := views.Open(c.Request.Context(), h.deps, path)
	defer app.Close()

	if requested.View == router.ViewProductList {
		if order, ok := parseSort(c); ok {
			app.List().SetSort(order)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.renderTimeout)
	defer cancel()

	loading := false
	if err := app.Settle(ctx); err != nil {
		loading = true
		h.logger.Debug("Rendering before catalog settled", zap.String("path", path), zap.Error(err))
	}

	if current := app.Current(); current.Path != requested.Path {
		c.Redirect(http.StatusFound, current.Path)
		return
	}

	h.render(c, app.Page(), loading)
}

// submitLogin handles the login form post: either a password toggle or a submit.
func (h *Handler) submitLogin(c *gin.Context) {
	app := views.Open(c.Request.Context(), h.deps, router.PathLogin)
	defer app.Close()

	login := app.Login()
	login.Restore(
		form.Values{
			"email":    c.PostForm("email"),
			"password": c.PostForm("password"),
		},
		splitTouched(c.PostFormArray("touched")),
		c.PostForm("submitted") == "true",
		form.ParseVisibility(c.PostForm("visibility")),
	)

	switch c.PostForm("action") {
	case "toggle-password":
		login.TogglePassword()
	default:
		if _, err := login.Submit(c.Request.Context()); err != nil {
			h.logger.Error("Login submission failed", zap.Error(err))
			h.render(c, app.Page(), false, http.StatusInternalServerError)
			return
		}
		if sub := login.Submission(); sub != nil {
			h.logger.Info("Login accepted", zap.String("submission_id", sub.ID))
		}
	}

	h.render(c, app.Page(), false)
}

type blurRequest struct {
	Field     string            `json:"field" binding:"required"`
	Values    map[string]string `json:"values"`
	Touched   []string          `json:"touched"`
	Submitted bool              `json:"submitted"`
}

// blurLogin validates the form when a field loses focus and reports the
// error to show under that field.
func (h *Handler) blurLogin(c *gin.Context) {
	var req blurRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	app := views.Open(c.Request.Context(), h.deps, router.PathLogin)
	defer app.Close()

	login := app.Login()
	login.Restore(form.Values(req.Values), req.Touched, req.Submitted, form.Masked)
	login.Blur(req.Field)

	model := app.Page().Login
	c.JSON(http.StatusOK, gin.H{
		"field":   req.Field,
		"error":   login.VisibleError(req.Field),
		"touched": model.Touched,
		"valid":   model.Valid,
	})
}

func (h *Handler) render(c *gin.Context, page views.Page, loading bool, status ...int) {
	code := http.StatusOK
	data := pageData{Page: page, Loading: loading, LoadingText: views.LoadingText}
	tmpl := "notfound.html"

	switch page.Route.View {
	case router.ViewLogin:
		tmpl, data.Title = "login.html", "Log in"
	case router.ViewProductList:
		tmpl, data.Title = "products.html", "Products"
		if page.List.Status == views.StatusError {
			code = http.StatusBadGateway
		}
	case router.ViewProductDetail:
		tmpl, data.Title = "product.html", "Product"
		if page.Detail.Status == views.StatusReady {
			data.Title = page.Detail.Product.Name
		}
		if page.Detail.Status == views.StatusError {
			code = http.StatusBadGateway
		}
	default:
		data.Title = views.NotFoundTitle
		code = http.StatusNotFound
	}

	if len(status) > 0 {
		code = status[0]
	}
	c.HTML(code, tmpl, data)
}

func parseSort(c *gin.Context) (views.SortOrder, bool) {
	col, ok := views.ParseColumn(c.Query("sort"))
	if !ok {
		return views.SortOrder{}, false
	}
	return views.SortOrder{Column: col, Desc: c.Query("dir") == "desc"}, true
}

// sortHref is the link a header click follows.
func sortHref(h views.ColumnHeader) string {
	dir := "asc"
	if h.Active && !h.Desc {
		dir = "desc"
	}
	q := url.Values{}
	q.Set("sort", string(h.Column))
	q.Set("dir", dir)
	return router.PathProducts + "?" + q.Encode()
}

func splitTouched(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, f := range strings.Split(r, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}
