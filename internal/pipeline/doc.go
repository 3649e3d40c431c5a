// Package pipeline analyzes many seed URLs concurrently.
//
// Each analysis is independent: it owns its crawl state, rate limiter and
// result. The BatchProcessor only bounds how many run at once and keeps
// the results in input order.
//
// Design decision: We use errgroup.SetLimit rather than a hand-written
// worker pool because errgroup already couples the concurrency limit with
// context cancellation.
package pipeline
