// Package relayclient is the HTTP client for the task solver relay.
//
// [Client] applies the relay base URL, optional auth and custom headers to
// every request. Non-2xx replies become [*StatusError] carrying the relay's
// "error" message and status code; callers classify them from there.
package relayclient
