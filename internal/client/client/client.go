package client

import (
	"context"
)

// Client is the transport contract the services are written against.
//
// Do sends one JSON request. in (may be nil) is encoded as the body and a
// 2xx response body is decoded into out (may be nil). Non-2xx responses are
// returned as *APIError; network failures are returned unmodified.
type Client interface {
	Do(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error
	SetToken(token string)
	ClearToken()
	Token() string
	OnSessionExpired(fn func()) (unsubscribe func())
}

// RequestOption tunes a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	anonymous      bool
	ignoreExpiry   bool
	query          map[string]string
	operationLabel string
}

// Anonymous sends the request without the Authorization header.
func Anonymous() RequestOption {
	return func(o *requestOptions) { o.anonymous = true }
}

// IgnoreExpiry keeps a 401 on this request from being reported as an
// expired session. Used by the login call, where 401 means bad credentials.
func IgnoreExpiry() RequestOption {
	return func(o *requestOptions) { o.ignoreExpiry = true }
}

// Query adds a query string parameter.
func Query(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = map[string]string{}
		}
		o.query[key] = value
	}
}

// Op labels the request in errors and logs.
func Op(name string) RequestOption {
	return func(o *requestOptions) { o.operationLabel = name }
}
