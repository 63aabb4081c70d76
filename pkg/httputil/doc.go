// Package httputil holds the small HTTP helpers shared by the fetcher and
// the server.
//
// # Retry
//
// [Policy.Do] retries transient failures with exponential backoff. Only
// errors wrapped with [Retryable] are retried; everything else returns
// immediately:
//
//	err := httputil.DefaultPolicy.Do(ctx, func(attempt int) error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(url, resp.StatusCode)
//	})
//
// [CheckStatus] marks 5xx and 429 responses retryable.
//
// # Bodies
//
// [ReadLimited] reads a body up to a byte cap, so that neither a remote
// server nor an HTTP client can push an unbounded file into memory.
package httputil
