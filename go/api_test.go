package storefrontserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/storefront-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/storefront-api/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	identitymemory "github.com/Apurer/storefront-api/internal/domains/identity/adapters/memory"
	identityapp "github.com/Apurer/storefront-api/internal/domains/identity/application"
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
	ordersmemory "github.com/Apurer/storefront-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	referencememory "github.com/Apurer/storefront-api/internal/domains/reference/adapters/memory"
	referenceapp "github.com/Apurer/storefront-api/internal/domains/reference/application"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

type testServer struct {
	router  *gin.Engine
	catalog *catalogmemory.Repository
	lamp    *catalogdomain.Product
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	products := catalogmemory.NewRepository()
	lamp, err := products.Save(ctx, &catalogdomain.Product{SKU: "LMP-1", Name: "Brass lamp", Price: decimal.NewFromInt(1200), StockQuantity: 3})
	require.NoError(t, err)
	_, err = products.Save(ctx, &catalogdomain.Product{SKU: "CHR-1", Name: "Oak chair", Price: decimal.NewFromInt(450), StockQuantity: 20})
	require.NoError(t, err)

	accounts := identitymemory.NewRepository()
	for _, a := range []*identitydomain.Account{
		{Kind: identitydomain.KindCustomer, LastName: "Ivanova", FirstName: "Anna", Email: "anna@example.com", Password: "secret1", Role: identitydomain.RoleCustomer},
		{Kind: identitydomain.KindEmployee, LastName: "Petrov", FirstName: "Oleg", Email: "oleg@example.com", Password: "secret1", Role: identitydomain.RoleManager},
		{Kind: identitydomain.KindEmployee, LastName: "Root", FirstName: "Ada", Email: "admin@example.com", Password: "secret1", Role: identitydomain.RoleAdmin},
	} {
		_, err := accounts.Save(ctx, a)
		require.NoError(t, err)
	}

	orders := ordersmemory.NewRepository()
	carts := cartmemory.NewStore()
	cartService := cartapp.NewService(carts, products)
	identityService := identityapp.NewService(accounts, identitymemory.NewSessionStore(), identityapp.WithCartResetter(cartService))
	ordersService := ordersapp.NewService(carts, products, ordersmemory.NewUnitOfWork(orders, products), orders,
		ordersapp.WithIdempotency(ordersmemory.NewIdempotencyStore()))
	referenceRepo := referencememory.NewRepository(products, orders)
	_, err = referenceRepo.AddCategory(ctx, "Lighting")
	require.NoError(t, err)

	responder := NewResponder("")
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		SessionAPI: NewSessionAPI(identityService, responder),
		AccountAPI: NewAccountAPI(identityService, responder),
		ProductAPI: NewProductAPI(catalogapp.NewService(products, orders), responder),
		CartAPI:    NewCartAPI(cartService, responder),
		OrderAPI:   NewOrderAPI(ordersService, nil, responder),
		TableAPI:   NewTableAPI(referenceapp.NewService(referenceRepo), responder),
		Sessions:   NewSessionMiddleware(identityService, responder),
	})
	return &testServer{router: router, catalog: products, lamp: lamp}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/session/login", "", LoginRequest{Email: email, Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/session/guest", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var guest Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guest))
	assert.NotEmpty(t, guest.Token)
	assert.Equal(t, "guest", guest.Actor.Role)
	assert.Empty(t, guest.Actor.Capabilities)

	token := srv.login(t, "ANNA@example.com")
	rec = srv.do(t, http.MethodGet, "/v1/session", "", nil, HeaderSessionToken, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var current Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.Equal(t, "customer", current.Actor.Role)
	assert.Contains(t, current.Actor.Capabilities, string(identitydomain.CapabilityPlaceOrder))

	rec = srv.do(t, http.MethodPost, "/v1/session/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierrors.TypeUnauthorized, decodeProblem(t, rec).Type)

	// a stale token does not block signing in again
	rec = srv.do(t, http.MethodPost, "/v1/session/login", token, LoginRequest{Email: "anna@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/session/login", "", LoginRequest{Email: "anna@example.com", Password: "wrong-1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v1/session/login", "", LoginRequest{Email: "not-an-email", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.TypeValidation, decodeProblem(t, rec).Type)
}

func TestGuestCannotAddToCart(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/cart/items", "", CartItemRequest{ProductID: srv.lamp.ID, Quantity: 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apierrors.TypeForbidden, decodeProblem(t, rec).Type)
}

func TestCartQuoteAndStockGuard(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "anna@example.com")

	rec := srv.do(t, http.MethodPost, "/v1/cart/items", token, CartItemRequest{ProductID: srv.lamp.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cart Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.True(t, cart.ItemsTotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, cart.DeliveryFee.Equal(decimal.NewFromInt(300)))
	assert.True(t, cart.GrandTotal.Equal(decimal.NewFromInt(1500)))

	rec = srv.do(t, http.MethodPost, "/v1/cart/items/1/increase", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Equal(t, 2, cart.TotalQuantity)
	assert.True(t, cart.DeliveryFee.IsZero())

	rec = srv.do(t, http.MethodPost, "/v1/cart/items", token, CartItemRequest{ProductID: srv.lamp.ID, Quantity: 5})
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeInsufficientStock, problem.Type)
	assert.EqualValues(t, 3, problem.Extensions["available"])
	assert.Equal(t, "Brass lamp", problem.Extensions["productName"])

	rec = srv.do(t, http.MethodPost, "/v1/cart/items/1/decrease", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Equal(t, 1, cart.TotalQuantity)

	rec = srv.do(t, http.MethodDelete, "/v1/cart", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodGet, "/v1/cart", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	assert.Empty(t, cart.Lines)
}

func TestCheckoutAndHistory(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "anna@example.com")

	rec := srv.do(t, http.MethodPost, "/v1/checkout", token, CheckoutRequest{PaymentMethod: 1})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, apierrors.TypeEmptyCart, decodeProblem(t, rec).Type)

	rec = srv.do(t, http.MethodPut, "/v1/cart/items/1", token, CartQuantityRequest{Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodPost, "/v1/cart/items", token, CartItemRequest{ProductID: srv.lamp.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v1/checkout", token, CheckoutRequest{PaymentMethod: 2}, HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.True(t, receipt.TotalAmount.Equal(decimal.NewFromInt(2400)))
	assert.Equal(t, 1, receipt.LineCount)

	rec = srv.do(t, http.MethodPost, "/v1/checkout", token, CheckoutRequest{PaymentMethod: 2}, HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var replay Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &replay))
	assert.True(t, replay.Replayed)
	assert.Equal(t, receipt.OrderID, replay.OrderID)

	rec = srv.do(t, http.MethodPost, "/v1/checkout", token, CheckoutRequest{PaymentMethod: 1}, HeaderIdempotencyKey, "k-1")
	assert.Equal(t, http.StatusConflict, rec.Code)

	stored, err := srv.catalog.FindProduct(context.Background(), srv.lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.StockQuantity)

	rec = srv.do(t, http.MethodGet, "/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "card", history[0].PaymentMethod)
	assert.Equal(t, "New", history[0].Status)

	rec = srv.do(t, http.MethodGet, "/v1/orders/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	admin := srv.login(t, "admin@example.com")
	rec = srv.do(t, http.MethodDelete, "/v1/products/1", admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, "anna@example.com")

	rec := srv.do(t, http.MethodPost, "/v1/checkout", token, CheckoutRequest{PaymentMethod: 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductAdministration(t *testing.T) {
	srv := newTestServer(t)
	manager := srv.login(t, "oleg@example.com")
	discount := decimal.NewFromInt(10)

	rec := srv.do(t, http.MethodPost, "/v1/products", manager, ProductMutation{
		SKU: "TBL-1", Name: "Walnut table", Price: decimal.NewFromInt(2500), DiscountPercent: &discount, StockQuantity: 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.HasDiscount)
	assert.True(t, created.EffectivePrice.Equal(decimal.NewFromInt(2250)))

	rec = srv.do(t, http.MethodPost, "/v1/products", manager, ProductMutation{SKU: "TBL-1", Name: "Copy", Price: decimal.NewFromInt(1)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/v1/products/2", manager, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/products?expensive=true&sort=price_desc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 2)
	assert.Equal(t, "Walnut table", found[0].Name)

	rec = srv.do(t, http.MethodGet, "/v1/products?sort=sideways", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountsManagement(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/accounts", "", RegisterRequest{
		LastName: "Sidorov", FirstName: "Ivan", Email: "ivan@example.com", Phone: "+7 912 345 67 89",
		Password: "Str0ng!pw", ConfirmPassword: "Str0ng!pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var account Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "customer", account.Role)

	customer := srv.login(t, "anna@example.com")
	rec = srv.do(t, http.MethodGet, "/v1/accounts", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := srv.login(t, "admin@example.com")
	rec = srv.do(t, http.MethodGet, "/v1/accounts?q=sidorov", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	// customers cannot be promoted to staff roles
	rec = srv.do(t, http.MethodPut, "/v1/accounts/customer/"+strconv.FormatInt(listed[0].ID, 10)+"/role", admin, ChangeRoleRequest{Role: 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/v1/accounts?q=oleg", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.Equal(t, "employee", listed[0].Kind)
	olegRole := "/v1/accounts/employee/" + strconv.FormatInt(listed[0].ID, 10) + "/role"

	rec = srv.do(t, http.MethodPut, olegRole, admin, ChangeRoleRequest{Role: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPut, olegRole, admin, ChangeRoleRequest{Role: 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "courier", account.Role)

	rec = srv.do(t, http.MethodPut, "/v1/accounts/customer/999/role", admin, ChangeRoleRequest{Role: 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReferenceTables(t *testing.T) {
	srv := newTestServer(t)
	manager := srv.login(t, "oleg@example.com")

	rec := srv.do(t, http.MethodGet, "/v1/tables", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var kinds []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kinds))
	assert.Contains(t, kinds, "products")
	assert.NotContains(t, kinds, "customers")

	rec = srv.do(t, http.MethodGet, "/v1/tables/categories", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var table Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Len(t, table.Rows, 1)

	rec = srv.do(t, http.MethodGet, "/v1/tables/products/export", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], ";")

	rec = srv.do(t, http.MethodGet, "/v1/tables/customers", manager, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	customer := srv.login(t, "anna@example.com")
	rec = srv.do(t, http.MethodGet, "/v1/tables/products/export", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
