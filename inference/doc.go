// Package inference invokes the marketplace's remote model endpoint under
// latency, rate-limit and reliability constraints. It composes four small
// pieces into a single Invoke operation:
//
//   - Cache: a generic TTL key/value store with lazy expiry
//   - RateLimiter: minimum spacing between successive call starts
//   - RunWithRetry: bounded retries with linear backoff
//   - the HTTP boundary to the inference endpoint
//
// On top of Invoke it provides the typed model operations (text generation,
// chat completion, embeddings, sentiment, zero-shot classification) that
// shape request payloads and defensively validate raw responses, plus the
// error taxonomy shared by all of them.
//
// The package deliberately treats the endpoint as an opaque HTTP boundary:
// POST {endpoint}{modelID} with a JSON body and a bearer credential. A
// non-2xx response surfaces as a RequestError carrying the status code and
// the raw response body.
package inference
