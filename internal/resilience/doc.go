// Package resilience groups the fault-tolerance helpers wrapped around model inference.
//
//   - circuitbreaker stops calling a provider that keeps failing
//   - retry re-runs transient failures with exponential backoff and jitter
//   - ratelimit throttles calls to a provider
//
// Typical composition inside a provider adapter:
//
//	cb := circuitbreaker.New(circuitbreaker.ModelConfig("openai"))
//	err := retry.WithBackoff(ctx, retry.ModelConfig(), func() error {
//	    out, err = circuitbreaker.Call(cb, func() (string, error) {
//	        return callModel(ctx)
//	    })
//	    return err
//	})
package resilience
