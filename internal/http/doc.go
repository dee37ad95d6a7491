// Package http provides HTTP handlers and middleware for the room
// reservation API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}.
//     The token is returned in the body, the `X-Session-Token` header and a
//     `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session and clears the
//     cookie. Returns 204 No Content.
//   - GET /users, POST /users, GET|PUT|DELETE /users/{id}: administrator
//     controlled account management exchanging the `userDTO` payload defined
//     in user_handler.go.
//   - GET /rooms, POST /rooms, GET|PUT|DELETE /rooms/{id}: room catalog
//     endpoints. Listing is available to any authenticated principal while
//     mutations require admin privileges. Resource flags tolerate the legacy
//     0/1 integer encoding on input.
//   - GET /projects, POST /projects, GET|PATCH|DELETE /projects/{id}:
//     project catalog endpoints for coordinators and admins.
//   - GET /reservations, POST /reservations, GET /reservations/{id},
//     POST /reservations/{id}/approve|reject|cancel,
//     GET /reservations/{id}/occurrences: reservation intake, moderation and
//     recurrence expansion.
//   - GET /availability: returns the rooms able to host the queried window.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth. All user facing messages
// are in Brazilian Portuguese.
package http
