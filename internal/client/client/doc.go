// Package client contains the transport layer of the pestcrm admin client.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the Client interface) the services are
//     written against: one JSON request per Do call, a default bearer token,
//     and a session-expired notification.
//  2. A concrete REST implementation (see HTTPClient) that attaches the
//     static x-api-key / x-app-version headers, a fresh X-Request-ID and,
//     once set, Authorization: Bearer <token> to every request.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI,
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Session expiry
//
// A 401 on any request not sent with IgnoreExpiry is reported to every
// OnSessionExpired subscriber. The transport itself never clears stored
// credentials or navigates; the composition root reacts by logging out
// through the session store. The caller still receives the *APIError.
//
// # Error Handling
//
// Non-2xx responses are *APIError values that match ErrUnauthorized,
// ErrForbidden, ErrNotFound or ErrUnavailable via errors.Is. Network errors
// are returned unmodified.
package client
