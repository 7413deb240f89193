// Package cli provides the interactive command-line admin client of the
// pest-control CRM.
//
// It wires configuration, the local session database, the REST transport,
// the services and the session state, then runs a REPL. Each page of the
// admin UI is a route; protected routes pass through the route guard on
// every navigation, so an anonymous user is sent to login (and back again
// afterwards) and a user without the right role sees an access-denied view.
//
// Key features:
//   - Login / Register / Logout / WhoAmI
//   - Product and category management (admin only)
//   - Public catalog and service enquiries
//   - Session restore from disk and uniform handling of expired sessions
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the navigator for details.
package cli
