// Package workers implements the worker pool that classifies ingested posts.
//
// The pool subscribes once to post events and fans post IDs out to a fixed
// number of goroutines. Each worker:
//   - Loads the post from the store and skips it if already labelled
//   - Classifies sentiment and India relation, detects language and
//     translates known Hindi terms
//   - Writes the labels back and invalidates the cached dashboard stats
//   - Publishes a post.classified event
//
// The health monitor tracks worker status and records it in metrics.
package workers
