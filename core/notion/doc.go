// Package notion provides the rate-limited, retrying client for the remote
// block store.
//
// # Client Interface
//
// The Client interface abstracts the REST transport so the diff executor and
// page service can be tested against mocks (see core/notion/mocks) or an
// in-memory fake.
//
// # Rate Limiting
//
// One client owns one rate limiter; every outbound request waits for the
// limiter gate first. Concurrent sync runs that share a client therefore
// share the request budget, which is what the remote's per-integration rate
// limit requires.
//
// # Retries
//
// Transient failures (429, 502, 503, 504) are retried with exponential
// backoff up to a configured attempt budget; everything else surfaces
// immediately as an *APIError.
package notion
