// Package github implements the read-only GitHub API client used for bulk
// repository imports.
//
// # Requests
//
// [Client] authenticates with a personal access token via an [oauth2] static
// token source and sends the GitHub JSON Accept and API version headers on
// every request. Page fetches are paced with a [rate.Limiter] so exhaustive
// pagination stays polite to the API.
//
// # Pagination
//
// [Client.FetchOwned] and [Client.FetchStarred] both page through their
// endpoint at the API's maximum page size, accumulating until a short or
// empty page. A failure on any page aborts the whole fetch; pages fetched so
// far are discarded rather than returned partially.
//
// # Error taxonomy
//
// Every request-issuing method classifies failures into a closed set usable
// with errors.Is / errors.As:
//   - [ErrNoToken] : no token configured, no request was attempted
//   - [InvalidTokenError] : HTTP 401
//   - [RateLimitedError] : HTTP 403 with exhausted quota, carries the reset time
//   - [ForbiddenError] : any other HTTP 403
//   - [APIError] : any other non-success status, carries status code and body
//   - [NetworkError] : transport-level failure (DNS, connection refused, timeout)
//
// [Client.ValidateToken] and [Client.RateLimit] are exceptions by contract:
// they never fail, converting any error into a zero result.
package github
