// Package storefrontserver exposes the storefront over HTTP with gin.
package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API section.
type ApiHandleFunctions struct {
	SessionAPI SessionAPI
	AccountAPI AccountAPI
	ProductAPI ProductAPI
	CartAPI    CartAPI
	OrderAPI   OrderAPI
	TableAPI   TableAPI
	// Sessions resolves the request token into an actor before any handler runs.
	Sessions *SessionMiddleware
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine. Extra
// middleware runs before session resolution so tracing spans cover it.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	group := router.Group("/v1")
	group.Use(middleware...)
	if handleFunctions.Sessions != nil {
		group.Use(handleFunctions.Sessions.Handle)
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			group.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			group.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			group.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			group.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes without a wired handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"Login", http.MethodPost, "/session/login", h.SessionAPI.Login},
		{"StartGuestSession", http.MethodPost, "/session/guest", h.SessionAPI.StartGuestSession},
		{"Logout", http.MethodPost, "/session/logout", h.SessionAPI.Logout},
		{"GetSession", http.MethodGet, "/session", h.SessionAPI.GetSession},

		{"Register", http.MethodPost, "/accounts", h.AccountAPI.Register},
		{"ListAccounts", http.MethodGet, "/accounts", h.AccountAPI.ListAccounts},
		{"ChangeRole", http.MethodPut, "/accounts/:kind/:id/role", h.AccountAPI.ChangeRole},

		{"SearchProducts", http.MethodGet, "/products", h.ProductAPI.SearchProducts},
		{"GetProduct", http.MethodGet, "/products/:id", h.ProductAPI.GetProduct},
		{"CreateProduct", http.MethodPost, "/products", h.ProductAPI.CreateProduct},
		{"UpdateProduct", http.MethodPut, "/products/:id", h.ProductAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/products/:id", h.ProductAPI.DeleteProduct},

		{"GetCart", http.MethodGet, "/cart", h.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/cart/items", h.CartAPI.AddCartItem},
		{"SetCartItemQuantity", http.MethodPut, "/cart/items/:productId", h.CartAPI.SetCartItemQuantity},
		{"IncreaseCartItem", http.MethodPost, "/cart/items/:productId/increase", h.CartAPI.IncreaseCartItem},
		{"DecreaseCartItem", http.MethodPost, "/cart/items/:productId/decrease", h.CartAPI.DecreaseCartItem},
		{"RemoveCartItem", http.MethodDelete, "/cart/items/:productId", h.CartAPI.RemoveCartItem},
		{"ClearCart", http.MethodDelete, "/cart", h.CartAPI.ClearCart},

		{"Checkout", http.MethodPost, "/checkout", h.OrderAPI.Checkout},
		{"ListOrders", http.MethodGet, "/orders", h.OrderAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/orders/:id", h.OrderAPI.GetOrder},

		{"ListTables", http.MethodGet, "/tables", h.TableAPI.ListTables},
		{"BrowseTable", http.MethodGet, "/tables/:kind", h.TableAPI.BrowseTable},
		{"ExportTable", http.MethodGet, "/tables/:kind/export", h.TableAPI.ExportTable},
	}
}
