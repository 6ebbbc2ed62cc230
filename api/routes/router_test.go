package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/newsletter"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

type testServer struct {
	handler http.Handler
	users   *users.Service
	catalog *catalog.Service
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Session = config.SessionConfig{
		Secret:     "0123456789abcdef0123",
		Issuer:     "storefront",
		CookieName: "sid",
		TTL:        time.Hour,
	}
	cfg.Password = config.PasswordConfig{ScryptN: 1024, ScryptR: 8, ScryptP: 1, MinLength: 8}
	return cfg
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(reg)
	kv := redis.NewInMemory()

	userSvc, err := users.NewService(users.NewMemoryStore(), cfg.Password)
	require.NoError(t, err)
	sessions, err := session.NewManager(kv, cfg.Session)
	require.NoError(t, err)
	authSvc, err := auth.NewService(auth.ServiceParams{
		Users:          userSvc,
		SessionManager: sessions,
		SessionConfig:  cfg.Session,
		Metrics:        storefrontMetrics,
	})
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalog.NewMemoryStore())
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.NewMemoryStore(), catalogSvc, storefrontMetrics)
	require.NoError(t, err)
	newsletterSvc, err := newsletter.NewService(newsletter.NewMemoryStore())
	require.NoError(t, err)

	handler := NewRouter(cfg, logger.Nop(), Dependencies{
		Auth:        authSvc,
		Users:       userSvc,
		Sessions:    sessions,
		Catalog:     catalogSvc,
		Cart:        cartSvc,
		Newsletter:  newsletterSvc,
		Redis:       kv,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
		Ready:       map[string]controllers.Pinger{"redis": kv},
	})
	return testServer{handler: handler, users: userSvc, catalog: catalogSvc}
}

type call struct {
	method  string
	path    string
	body    string
	cookies []*http.Cookie
	headers map[string]string
}

func (s testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if c.body != "" {
		body = strings.NewReader(c.body)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	if c.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	s.handler.ServeHTTP(resp, req)
	return resp
}

func data(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
}

func errCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestRegisterSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, call{method: http.MethodPost, path: "/api/register", body: `{"username":"shopper","email":"Shopper@Example.com","password":"correct-horse"}`})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	require.NotContains(t, resp.Body.String(), "password")
	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)

	resp = srv.do(t, call{method: http.MethodGet, path: "/api/user", cookies: cookies})
	require.Equal(t, http.StatusOK, resp.Code)
	var me struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	data(t, resp, &me)
	require.Equal(t, "shopper", me.Username)
	require.Equal(t, "shopper@example.com", me.Email)
	require.Equal(t, "user", me.Role)

	resp = srv.do(t, call{method: http.MethodPut, path: "/api/user", cookies: cookies, body: `{"city":"Lisbon"}`})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = srv.do(t, call{method: http.MethodPost, path: "/api/logout", cookies: cookies})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = srv.do(t, call{method: http.MethodGet, path: "/api/user", cookies: cookies})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = srv.do(t, call{method: http.MethodPost, path: "/api/login", body: `{"email":"shopper@example.com","password":"correct-horse"}`})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotEmpty(t, resp.Header().Get(controllers.SessionTokenHeader))

	bearer := map[string]string{"Authorization": "Bearer " + resp.Header().Get(controllers.SessionTokenHeader)}
	resp = srv.do(t, call{method: http.MethodGet, path: "/api/user", headers: bearer})
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestDuplicateRegisterIsBadRequest(t *testing.T) {
	srv := newTestServer(t)
	body := `{"username":"dupe","email":"dupe@example.com","password":"correct-horse"}`

	resp := srv.do(t, call{method: http.MethodPost, path: "/api/register", body: body})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = srv.do(t, call{method: http.MethodPost, path: "/api/register", body: `{"username":"other","email":"dupe@example.com","password":"correct-horse"}`})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "CONFLICT", errCode(t, resp))
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.do(t, call{method: http.MethodPost, path: "/api/register", body: `{"username":"known","email":"known@example.com","password":"correct-horse"}`})
	require.Equal(t, http.StatusCreated, resp.Code)

	wrongPassword := srv.do(t, call{method: http.MethodPost, path: "/api/login", body: `{"email":"known@example.com","password":"wrong-horse"}`})
	unknownEmail := srv.do(t, call{method: http.MethodPost, path: "/api/login", body: `{"email":"ghost@example.com","password":"wrong-horse"}`})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, wrongPassword.Code, unknownEmail.Code)
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAdminGuard(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	_, err := srv.users.Register(ctx, users.RegisterInput{Username: "boss", Email: "boss@example.com", Password: "correct-horse", Role: enums.RoleAdmin})
	require.NoError(t, err)

	product := `{"name":"Coat","category":"Women","price":120,"imageUrl":"https://img/coat"}`

	resp := srv.do(t, call{method: http.MethodPost, path: "/api/products", body: product})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = srv.do(t, call{method: http.MethodPost, path: "/api/register", body: `{"username":"pleb","email":"pleb@example.com","password":"correct-horse"}`})
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = srv.do(t, call{method: http.MethodPost, path: "/api/products", body: product, cookies: resp.Result().Cookies()})
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = srv.do(t, call{method: http.MethodPost, path: "/api/login", body: `{"email":"boss@example.com","password":"correct-horse"}`})
	require.Equal(t, http.StatusOK, resp.Code)
	admin := resp.Result().Cookies()

	resp = srv.do(t, call{method: http.MethodPost, path: "/api/products", body: product, cookies: admin})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = srv.do(t, call{method: http.MethodGet, path: "/api/admin/users", cookies: admin})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotContains(t, resp.Body.String(), "password")

	resp = srv.do(t, call{method: http.MethodGet, path: "/api/products/category/Women"})
	var rows []json.RawMessage
	data(t, resp, &rows)
	require.Len(t, rows, 1)
}

func TestCartFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	sneakerPrice := decimal.RequireFromString("19.99")
	product, err := srv.catalog.Products.Create(ctx, catalog.ProductInput{
		Name: "Sneaker", Category: "Men", Price: &sneakerPrice, ImageURL: "https://img/sneaker",
	})
	require.NoError(t, err)

	session := map[string]string{middleware.CartSessionHeader: "browser-1"}
	add := `{"productId":` + strconv.FormatUint(product.ID, 10) + `,"quantity":2}`

	resp := srv.do(t, call{method: http.MethodPost, path: "/api/cart", body: add, headers: session})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	resp = srv.do(t, call{method: http.MethodPost, path: "/api/cart", body: add, headers: session})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = srv.do(t, call{method: http.MethodGet, path: "/api/cart", headers: session})
	require.Equal(t, http.StatusOK, resp.Code)
	var view struct {
		Items []struct {
			ID       uint64 `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		ItemCount int             `json:"itemCount"`
		Total     decimal.Decimal `json:"total"`
	}
	data(t, resp, &view)
	require.Len(t, view.Items, 1)
	require.Equal(t, 4, view.ItemCount)
	require.True(t, view.Total.Equal(decimal.RequireFromString("79.96")), view.Total.String())

	resp = srv.do(t, call{method: http.MethodGet, path: "/api/cart", headers: map[string]string{middleware.CartSessionHeader: "browser-2"}})
	data(t, resp, &view)
	require.Empty(t, view.Items)

	resp = srv.do(t, call{method: http.MethodDelete, path: "/api/cart/1", headers: map[string]string{middleware.CartSessionHeader: "browser-2"}})
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = srv.do(t, call{method: http.MethodPut, path: "/api/cart/1", body: `{"quantity":0}`, headers: session})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "item removed from cart")
}

func TestCartAddReplaysIdempotencyKey(t *testing.T) {
	srv := newTestServer(t)
	headers := map[string]string{middleware.CartSessionHeader: "browser-3", middleware.IdempotencyHeader: "add-1"}

	first := srv.do(t, call{method: http.MethodPost, path: "/api/cart", body: `{"productId":5}`, headers: headers})
	require.Equal(t, http.StatusCreated, first.Code)
	second := srv.do(t, call{method: http.MethodPost, path: "/api/cart", body: `{"productId":5}`, headers: headers})
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	resp := srv.do(t, call{method: http.MethodGet, path: "/api/cart", headers: headers})
	var view struct {
		ItemCount int `json:"itemCount"`
	}
	data(t, resp, &view)
	require.Equal(t, 1, view.ItemCount)
}

func TestNewsletterRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, call{method: http.MethodPost, path: "/api/newsletter", body: `{"email":"fan@example.com"}`})
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = srv.do(t, call{method: http.MethodPost, path: "/api/newsletter", body: `{"email":"not-an-email"}`})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = srv.do(t, call{method: http.MethodGet, path: "/api/newsletter/subscribers"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestOperationalRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, call{method: http.MethodGet, path: "/health/live"})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = srv.do(t, call{method: http.MethodGet, path: "/health/ready"})
	require.Equal(t, http.StatusOK, resp.Code)

	srv.do(t, call{method: http.MethodGet, path: "/api/products"})
	resp = srv.do(t, call{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "/api/products")

	resp = srv.do(t, call{method: http.MethodGet, path: "/api/products/abc"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
