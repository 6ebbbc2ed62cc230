package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func decodeData(t *testing.T, body io.Reader, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorCode(t *testing.T, body io.Reader) string {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return envelope.Error.Code
}

type stubAuthService struct {
	result      *auth.Result
	err         error
	loggedOut   string
	currentUser *models.User
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.Result, error) {
	return s.result, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.Result, error) {
	return s.result, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	s.loggedOut = sessionID
	return s.err
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID uint64) (*models.User, error) {
	return s.currentUser, s.err
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID uint64, in users.UpdateProfileInput) (*models.User, error) {
	return s.currentUser, s.err
}

var sessionCfg = config.SessionConfig{CookieName: "sid", TTL: time.Hour}

func TestAuthLoginSetsSessionCookie(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	svc := &stubAuthService{result: &auth.Result{
		User:      &models.User{ID: 1, Username: "shopper", Email: "a@example.com", Password: "hash.salt"},
		SessionID: "sess-1",
		Token:     "signed-token",
		ExpiresAt: expires,
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@example.com","password":"secret123"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, sessionCfg, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || cookies[0].Value != "signed-token" || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
	if strings.Contains(resp.Body.String(), "hash.salt") {
		t.Fatalf("password hash leaked in response: %s", resp.Body.String())
	}
}

func TestAuthRegisterReturnsCreated(t *testing.T) {
	svc := &stubAuthService{result: &auth.Result{User: &models.User{ID: 2, Username: "newbie"}, Token: "t"}}
	body := `{"username":"newbie","email":"n@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(svc, sessionCfg, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var user models.User
	decodeData(t, resp.Body, &user)
	if user.Username != "newbie" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestAuthRegisterValidatesBody(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"username":"x"}`))
	resp := httptest.NewRecorder()
	AuthRegister(svc, sessionCfg, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := errorCode(t, resp.Body); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), 1, "user", "sess-9"))
	resp := httptest.NewRecorder()
	AuthLogout(svc, sessionCfg, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.loggedOut != "sess-9" {
		t.Fatalf("expected session sess-9 destroyed, got %q", svc.loggedOut)
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}

func TestCurrentUserRequiresPrincipal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	resp := httptest.NewRecorder()
	CurrentUser(&stubAuthService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func newCatalog(t *testing.T) *catalog.Service {
	t.Helper()
	svc, err := catalog.NewService(catalog.NewMemoryStore())
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	return svc
}

func TestResourceHandlersRoundTrip(t *testing.T) {
	svc := newCatalog(t)

	body := `{"name":"Linen Shirt","category":"Men","price":49.99,"imageUrl":"https://img/1","isNew":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	ResourceCreate(svc.Products, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID    uint64 `json:"id"`
		Badge string `json:"badge"`
	}
	decodeData(t, resp.Body, &created)
	if created.ID == 0 || created.Badge != "new" {
		t.Fatalf("unexpected product %+v", created)
	}

	req = withURLParam(httptest.NewRequest(http.MethodPut, "/api/products/1", strings.NewReader(`{"price":39.99}`)), "id", "1")
	resp = httptest.NewRecorder()
	ResourceUpdate(svc.Products, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var updated models.Product
	decodeData(t, resp.Body, &updated)
	if !updated.Price.Equal(decimal.RequireFromString("39.99")) || updated.Name != "Linen Shirt" {
		t.Fatalf("partial update lost fields: %+v", updated)
	}

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/api/products/1", nil), "id", "1")
	resp = httptest.NewRecorder()
	ResourceDelete(svc.Products, "product", nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/products/1", nil), "id", "1")
	resp = httptest.NewRecorder()
	ResourceGet(svc.Products, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete got %d", resp.Code)
	}
}

func TestResourceCreateRejectsMissingPrice(t *testing.T) {
	svc := newCatalog(t)
	body := `{"name":"Linen Shirt","category":"Men","imageUrl":"https://img/1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	resp := httptest.NewRecorder()
	ResourceCreate(svc.Products, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "price") {
		t.Fatalf("expected price in error details, got %s", resp.Body.String())
	}
}

func decimalPtr(amount string) *decimal.Decimal {
	d := decimal.RequireFromString(amount)
	return &d
}

func TestResourceGetRejectsInvalidID(t *testing.T) {
	svc := newCatalog(t)
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/categories/abc", nil), "id", "abc")
	resp := httptest.NewRecorder()
	ResourceGet(svc.Categories, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductsByCategoryUnescapes(t *testing.T) {
	svc := newCatalog(t)
	ctx := context.Background()
	if _, err := svc.Products.Create(ctx, catalog.ProductInput{Name: "Scarf", Category: "Gift Sets", Price: decimalPtr("10"), ImageURL: "x"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/products/category/Gift%20Sets", nil), "category", "Gift%20Sets")
	resp := httptest.NewRecorder()
	ProductsByCategory(svc, nil).ServeHTTP(resp, req)

	var rows []models.Product
	decodeData(t, resp.Body, &rows)
	if len(rows) != 1 {
		t.Fatalf("expected one product, got %d", len(rows))
	}
}

func newCartService(t *testing.T) (*cart.Service, *catalog.Service) {
	t.Helper()
	products := newCatalog(t)
	svc, err := cart.NewService(cart.NewMemoryStore(), products, nil)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	return svc, products
}

func cartReq(method, target, body, session string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.WithCartSession(req.Context(), session))
}

func TestCartAddUpdateRemove(t *testing.T) {
	svc, _ := newCartService(t)

	resp := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(resp, cartReq(http.MethodPost, "/api/cart", `{"productId":7,"quantity":2}`, "s1"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var item models.CartItem
	decodeData(t, resp.Body, &item)
	if item.SessionID != "s1" || item.Quantity != 2 || item.UserID != nil {
		t.Fatalf("unexpected item %+v", item)
	}

	id := "1"
	resp = httptest.NewRecorder()
	CartUpdate(svc, nil).ServeHTTP(resp, withURLParam(cartReq(http.MethodPut, "/api/cart/1", `{"quantity":0}`, "s1"), "id", id))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var removed types.RemovedResponse
	decodeData(t, resp.Body, &removed)
	if !removed.Removed || removed.Message != "item removed from cart" {
		t.Fatalf("unexpected response %+v", removed)
	}

	resp = httptest.NewRecorder()
	CartRemove(svc, nil).ServeHTTP(resp, withURLParam(cartReq(http.MethodDelete, "/api/cart/1", "", "s1"), "id", id))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for removed line got %d", resp.Code)
	}
}

func TestCartAddRecordsOwnerWhenAuthenticated(t *testing.T) {
	svc, _ := newCartService(t)
	req := cartReq(http.MethodPost, "/api/cart", `{"productId":3}`, "s2")
	req = req.WithContext(middleware.WithPrincipal(req.Context(), 42, "user", "sess"))

	resp := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(resp, req)
	var item models.CartItem
	decodeData(t, resp.Body, &item)
	if item.UserID == nil || *item.UserID != 42 || item.Quantity != 1 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestCartUpdateRequiresQuantity(t *testing.T) {
	svc, _ := newCartService(t)
	resp := httptest.NewRecorder()
	CartUpdate(svc, nil).ServeHTTP(resp, withURLParam(cartReq(http.MethodPut, "/api/cart/1", `{}`, "s1"), "id", "1"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartFetchTotals(t *testing.T) {
	svc, products := newCartService(t)
	ctx := context.Background()
	product, err := products.Products.Create(ctx, catalog.ProductInput{Name: "Tee", Category: "Men", Price: decimalPtr("19.99"), ImageURL: "x"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	qty := 3
	if _, err := svc.Add(ctx, "s3", nil, cart.AddItemInput{ProductID: product.ID, Quantity: &qty}); err != nil {
		t.Fatalf("add: %v", err)
	}

	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, cartReq(http.MethodGet, "/api/cart", "", "s3"))
	var view struct {
		ItemCount int             `json:"itemCount"`
		Total     decimal.Decimal `json:"total"`
	}
	decodeData(t, resp.Body, &view)
	if view.ItemCount != 3 || !view.Total.Equal(decimal.RequireFromString("59.97")) {
		t.Fatalf("unexpected view %+v", view)
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReadyReportsFailures(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{}, "redis": nil}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{err: errors.New("down")}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	if resp.Header().Get(envHeader) != "test" {
		t.Fatalf("expected env header")
	}
}
