// Package http provides the request side of restcheck: reusable request
// specifications and the executor that sends them.
//
// It wraps the standard library's http package with additional features:
//   - Immutable RequestSpec values that merge with per-call overrides
//   - Configurable timeouts and optional rate limiting
//   - Request/response filters, run in registration order (logging)
//   - Captured responses with timing and a lazily parsed JSON view
//
// Non-2xx responses are returned as data; only connection failures and
// timeouts are reported as errors (TransportError).
package http
