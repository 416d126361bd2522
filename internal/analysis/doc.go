// Package analysis wraps the remote pose-analysis service. The client owns
// the retry/backoff policy for transient service outages and normalizes
// responses so callers always receive a non-nil landmark slice. It holds no
// session state; single-flight enforcement is the session controller's job.
package analysis
