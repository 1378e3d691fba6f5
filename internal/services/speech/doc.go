// Package speech provides a client for an OpenAI-compatible text-to-speech
// endpoint.
//
// Synthesize posts {model, input, voice, speed, instructions?} to
// {base_url}/audio/speech with a bearer token and returns the raw audio
// bytes (mp3 by default). Voices are lowercased; a zero speed becomes 1.0.
// Transient failures are retried through the shared httpretry policy.
package speech
