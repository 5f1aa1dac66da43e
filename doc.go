// Package authclient implements the session and authorization core of an
// administrative client for a tournament-management API: token decoding,
// shared session state, transparent request augmentation, and route guards.
//
// Session state:
//   - SessionStore holds the current UserProfile as a single observable cell
//     and mirrors every change into a durable Storage so a restarted process
//     reconstructs the last-known session without a network round trip. Only
//     Save and Clear mutate the cell; subscribers get replay-last semantics.
//
// Request augmentation:
//   - TokenTransport wraps an http.RoundTripper and attaches the stored
//     credential as a bearer header on every outgoing call. It reads Storage
//     directly (never the in-memory session) so it works for calls issued
//     before the Auther exists. Invalid or expired credentials are never sent
//     to the network: the transport clears the stored token, navigates to the
//     login route, and fails the call with a typed error.
//
// Guards:
//   - AuthGuard and RoleGuard evaluate synchronously at navigation time with
//     no network call. IsLoggedIn is a deliberately coarse storage-only
//     predicate; expiry is enforced by the transport, so a navigation can be
//     admitted with an already-expired token and the first network call on
//     that screen forces the logout.
package authclient
