// Package httpretry holds the retry and error plumbing shared by the text and
// speech backend clients.
//
// Requests are retried on HTTP 408/429/5xx and network timeouts with
// exponential backoff (base 1s, max 10s by default), honouring Retry-After.
// Context cancellation aborts retries immediately.
package httpretry
