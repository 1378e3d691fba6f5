// Package llm provides a client for an Ollama-compatible text-generation
// backend, used to attribute dialogue lines to speakers.
//
// # Request Shape
//
// Generate posts {model, prompt, stream:false, options:{temperature, top_p}}
// to {base_url}/api/generate and returns the trimmed "response" field.
// Defaults follow the attribution use case: llama2, temperature 0.1,
// top_p 0.9, 30 second timeout.
//
// # Retry Behaviour
//
// A single attempt is made by default. When more attempts are configured the
// client retries HTTP 408/429/5xx and network timeouts using the shared
// httpretry policy. Context cancellation aborts retries immediately.
//
// # Fallback
//
// Callers decide how to degrade. The dialogue attributor maps any error to an
// empty label with low confidence so one bad request never aborts a run.
package llm
