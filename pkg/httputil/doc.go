// Package httputil provides HTTP plumbing shared by the upstream clients.
//
// # Retry
//
// [Policy] wraps an upstream call with retries for transient failures.
// Only errors marked with [Retryable] are retried; a 404 or a decode
// failure is returned on the first attempt.
//
//	err := httputil.DefaultPolicy.Do(ctx, func(ctx context.Context) error {
//	    return client.fetch(ctx, name)
//	})
//
// The delay doubles after every failed attempt. A cancelled context stops
// the loop during a pause and returns ctx.Err().
package httputil
