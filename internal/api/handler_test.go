package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"storefront/internal/querycache"
	"storefront/internal/service"
	"storefront/internal/testutil"
	"storefront/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) (*gin.Engine, *testutil.FakeSource) {
	t.Helper()
	return setupRouterWithTimeout(t, time.Second)
}

func setupRouterWithTimeout(t *testing.T, renderTimeout time.Duration) (*gin.Engine, *testutil.FakeSource) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source := testutil.NewFakeSource(testutil.Products())
	cache := querycache.New()
	deps := views.Deps{Catalog: service.NewCatalogService(source, cache)}

	router := gin.New()
	NewHandler(deps, cache, renderTimeout, zap.NewNop()).SetupRoutes(router)
	return router, source
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(router, req)
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadinessReportsCacheStats(t *testing.T) {
	router, _ := setupRouter(t)
	serve(router, httptest.NewRequest(http.MethodGet, "/products", nil))

	w := serve(router, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache"`)
}

func TestReadinessFailsWhenDependencyIsDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cache := querycache.New()
	handler := NewHandler(views.Deps{}, cache, time.Second, zap.NewNop())
	handler.AddReadinessCheck("redis", func(context.Context) error { return errors.New("connection refused") })
	handler.AddReadinessCheck("postgres", func(context.Context) error { return nil })
	router := gin.New()
	handler.SetupRoutes(router)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, "connection refused", body.Dependencies["redis"])
	assert.Equal(t, "ok", body.Dependencies["postgres"])
}

func TestProductListPage(t *testing.T) {
	router, source := setupRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 6, strings.Count(body, `data-cy="table-row"`))
	assert.Contains(t, body, "Product Name")
	assert.Contains(t, body, "$89.99")
	assert.Contains(t, body, "Sold out!")
	assert.Contains(t, body, `href="/products/SBX-1234"`)

	serve(router, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, int32(1), source.ListCalls.Load())
}

func TestProductListSortedByQuery(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/products?sort=retail&dir=desc", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Less(t, strings.Index(body, "$524.25"), strings.Index(body, "$89.99"))
	assert.Less(t, strings.Index(body, "$89.99"), strings.Index(body, "$19.00"))
}

func TestProductListRendersLoadingWhileCatalogIsSlow(t *testing.T) {
	router, source := setupRouterWithTimeout(t, 20*time.Millisecond)
	release := source.Hold("")
	t.Cleanup(release)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-cy="Spinner"`)
	assert.Contains(t, body, "Loading...")
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.NotContains(t, body, `data-cy="table-row"`)
}

func TestProductListUpstreamFailure(t *testing.T) {
	router, source := setupRouter(t)
	source.FailWith(errors.New("connection refused"))

	w := serve(router, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Could not load products")
}

func TestProductDetailUpstreamFailure(t *testing.T) {
	router, source := setupRouter(t)
	source.FailWith(errors.New("connection refused"))

	w := serve(router, httptest.NewRequest(http.MethodGet, "/products/LGH-001", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	body := w.Body.String()
	assert.Contains(t, body, "Could not load product LGH-001")
	assert.Contains(t, body, "connection refused")
}

func TestProductDetailPage(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/products/LGH-001", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "LGH-001")
	assert.Contains(t, body, "MSRP (USD)")
	assert.Contains(t, body, "$49.99")
	assert.Contains(t, body, "Back to list")
}

func TestUnknownProductRedirectsToNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/products/XYZ", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/not-found", w.Header().Get("Location"))

	w = serve(router, httptest.NewRequest(http.MethodGet, "/not-found", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/foo", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")
}

func TestLoginPage(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-cy="LoginForm"`)
	assert.Contains(t, body, "Email Address")
	assert.Contains(t, body, `type="password"`)
	assert.Contains(t, body, ">Show<")
	assert.NotContains(t, body, "is a required field")
}

func TestLoginSubmitShowsErrors(t *testing.T) {
	router, _ := setupRouter(t)

	w := postForm(router, "/login", url.Values{
		"action":   {"submit"},
		"email":    {"not-an-email"},
		"password": {"123"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "email must be a valid email")
	assert.Contains(t, body, "password must be at least 6 characters")
	assert.NotContains(t, body, "Logged in as")
}

func TestLoginSubmitAccepted(t *testing.T) {
	router, _ := setupRouter(t)

	w := postForm(router, "/login", url.Values{
		"action":   {"submit"},
		"email":    {"shopper@example.com"},
		"password": {"hunter22"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged in as shopper@example.com")
}

func TestLoginTogglePassword(t *testing.T) {
	router, _ := setupRouter(t)

	w := postForm(router, "/login", url.Values{
		"action":     {"toggle-password"},
		"password":   {"secret"},
		"visibility": {"masked"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `type="text" name="password"`)
	assert.Contains(t, body, ">Hide<")
	assert.Contains(t, body, `value="secret"`)
	assert.NotContains(t, body, "is a required field")
}

func TestLoginBlur(t *testing.T) {
	router, _ := setupRouter(t)

	payload, err := json.Marshal(map[string]any{
		"field":  "email",
		"values": map[string]string{"email": "", "password": ""},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/login/blur", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := serve(router, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Field   string   `json:"field"`
		Error   string   `json:"error"`
		Touched []string `json:"touched"`
		Valid   bool     `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "email", body.Field)
	assert.Equal(t, "email is a required field", body.Error)
	assert.Equal(t, []string{"email"}, body.Touched)
	assert.False(t, body.Valid)
}

func TestLoginBlurRejectsBadBody(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login/blur", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := serve(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaticAssets(t *testing.T) {
	router, _ := setupRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/static/styles.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
