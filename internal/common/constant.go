// Package common contains constants and small helpers shared by the
// pestcrm client layers.
package common

// Header names sent on every API request.
const (
	AuthorizationHeaderName = "Authorization"
	APIKeyHeaderName        = "x-api-key"
	AppVersionHeaderName    = "x-app-version"
	RequestIDHeaderName     = "X-Request-ID"
)

// Route paths of the admin client.
const (
	RouteHome       = "/"
	RouteLogin      = "/login"
	RouteRegister   = "/register"
	RouteDashboard  = "/dashboard"
	RouteProducts   = "/dashboard/products"
	RouteCategories = "/dashboard/categories"
)

// RedirectParam carries the originally requested path through the login page.
const RedirectParam = "redirect"
