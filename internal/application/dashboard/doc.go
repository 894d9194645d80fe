// Package dashboard implements the operations behind the HexaCiphers API.
//
// The Manager validates requests, reads and writes the store, runs text
// analysis, campaign detection and alert evaluation, and keeps the cached
// dashboard summary fresh. Collected and submitted posts are announced on
// the post.events topic so the worker pool can classify them.
//
// The Scanner runs Manager.RunScan on a fixed interval.
package dashboard
