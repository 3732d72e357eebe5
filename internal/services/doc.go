// Package services implements the [Service] interface for the Spotify Web API catalog.
//
// # Authentication
//
// Catalog reads use the client-credentials grant. [TokenCache] wraps
// [clientcredentials.Config], holds the current bearer token and renews it a
// fixed margin before expiry. One cache is injected into each [SpotifyService];
// a mutex serializes refreshes so concurrent callers share a single exchange.
// A 401 from the API invalidates the cached token so the next call re-authenticates.
//
// # Rate Limiting
//
// Every request waits on a [rate.Limiter] before it is sent. The limit comes
// from the credentials.spotify.rate_limit setting.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : client id or secret not configured
//   - [shared.ErrAuthFailed] : token exchange rejected or unreachable
//   - [shared.ErrNotAuthenticated] : the API rejected the bearer token (401)
//   - [shared.ErrRateLimited] : the API answered 429; Retry-After is included
//   - [shared.ErrAPIRequest] : transport failure, other non-2xx status or undecodable body
//
// Spotify error bodies ({"error":{"status","message"}}) are surfaced in the error text.
// Requests are never retried here.
package services
